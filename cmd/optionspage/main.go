// Command optionspage serves, renders and edits options pages described by
// YAML or JSON definitions.
package main

func main() {
	Execute()
}
