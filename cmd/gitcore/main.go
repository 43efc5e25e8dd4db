// Command gitcore is a thin debug/inspection CLI over facade.RepoFacade:
// a cobra root with a context-threaded runtime config, one subcommand
// per facade operation group.
package main

func main() {
	Execute()
}
