//go:build !unix

package phys

// arena allocates size bytes from the Go heap on platforms without
// anonymous mmap support.
func arena(size int) ([]byte, func() error, error) {
	data := make([]byte, size)
	return data, func() error { return nil }, nil
}
