// Command reel plays the animated intro in a window, or runs it headless
// and prints sampled node transforms.
package main

func main() {
	Execute()
}
