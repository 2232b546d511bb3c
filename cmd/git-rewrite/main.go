// git-rewrite extracts the commit history of one branch into a portable
// export/ tree and replays such a tree into a freshly initialized
// repository, reconstructing an isomorphic history with new identifiers.
//
// Usage:
//
//	# From inside a repository root: write export/ beside the current directory
//	git-rewrite extract
//
//	# From a directory containing export/manifest.json: recreate the repository
//	git-rewrite rebuild
//
//	# Check an export tree without touching anything
//	git-rewrite validate
//
//	# Show version information
//	git-rewrite version
//
// Configuration is read from an optional git-rewrite.yaml; every setting
// has a default, so no configuration is required.
package main

func main() {
	Execute()
}
