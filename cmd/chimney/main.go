// Package main provides the CLI entrypoint for chimney.
//
// chimney is a build-time codegen tool that:
//   - Loads Go packages (go/types) and models the shapes of their types
//   - Derives transformation plans between structurally similar type pairs
//   - Applies human-reviewed override rules from a YAML file
//   - Renders plain Go transformation functions, total or partial
package main

func main() {
	Execute()
}
