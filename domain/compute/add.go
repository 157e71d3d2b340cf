package compute

// Add returns a+b with int32 wrap-around.
func Add(a, b int32) int32 {
	return a + b
}
