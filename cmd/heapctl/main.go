// Command heapctl replays allocation traces against the heapkit allocator and
// inspects heap image files.
package main

func main() {
	execute()
}
