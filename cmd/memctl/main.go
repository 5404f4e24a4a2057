// memctl inspects boot memory maps and exercises the memory core against a
// simulated physical address space.
package main

func main() {
	execute()
}
