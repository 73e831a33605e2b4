package iocli

//go:generate moq -out io_mock.go . IO

// IO is the terminal the commands talk to.
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	IsInteractive() bool
	Write(p []byte) (n int, err error)
}
