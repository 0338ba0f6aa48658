package config

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, sqlitePath string) *Repository {
	return &Repository{
		backend:    backend,
		sqlitePath: sqlitePath,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewAppForTest creates an App config for testing purposes
func NewAppForTest(path string) *App {
	return &App{path: path}
}

// NewAuthForTest creates an Auth config for testing purposes
func NewAuthForTest(noAuthUser string) *Auth {
	return &Auth{noAuthUser: noAuthUser}
}

// NewSentryForTest creates a Sentry config for testing purposes
func NewSentryForTest(dsn string) *Sentry {
	return &Sentry{dsn: dsn}
}
