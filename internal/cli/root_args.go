package cli

// RootArgs holds the persistent flags shared by every command.
type RootArgs struct {
	logLevel   *string
	logFormat  *string
	configPath *string
	noColor    *bool
}

func NewRootArgs() *RootArgs {
	return &RootArgs{
		logLevel:   new(string),
		logFormat:  new(string),
		configPath: new(string),
		noColor:    new(bool),
	}
}

func (a *RootArgs) GetLogLevel() string {
	return *a.logLevel
}

func (a *RootArgs) GetLogFormat() string {
	return *a.logFormat
}

func (a *RootArgs) GetConfigPath() string {
	return *a.configPath
}

func (a *RootArgs) GetNoColor() bool {
	return *a.noColor
}
