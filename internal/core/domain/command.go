package domain

// Command is an external process invocation.
type Command struct {
	// Name is the program to run. It is looked up on PATH unless absolute.
	Name string
	// Args holds the arguments that follow the program name.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir         string
	Environment map[string]string
}

// NewCommand builds a Command from an argv list. An empty list yields nil.
func NewCommand(argv []string, dir string, env map[string]string) *Command {
	if len(argv) == 0 {
		return nil
	}
	return &Command{
		Name:        argv[0],
		Args:        argv[1:],
		Dir:         dir,
		Environment: env,
	}
}
