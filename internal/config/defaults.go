package config

// Default returns the built-in configuration used when no config file is
// present. The profile set mirrors the environments the server is normally
// pointed at; azure_relaxed is selected at startup.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			RequestTimeout: 60000,
		},
		Log: LogConfig{
			Level: "INFO",
		},
		SQL: SQLConfig{
			Active: "azure_relaxed",
			Profiles: []SQLProfile{
				{
					Name:        "azure_production",
					DisplayName: "Azure Production",
					Server:      "upskilling-dbserver.database.windows.net",
					Database:    "TestDB",
					Auth:        "ActiveDirectoryInteractive",
					UsernameEnv: "SQL_USERNAME",
					Encrypt:     true,
					Timeout:     30,
					Description: "Production Azure SQL Database with AD authentication",
				},
				{
					Name:                   "azure_relaxed",
					DisplayName:            "Azure Production (Relaxed Security)",
					Server:                 "upskilling-dbserver.database.windows.net",
					Database:               "TestDB",
					Auth:                   "ActiveDirectoryInteractive",
					UsernameEnv:            "SQL_USERNAME",
					Encrypt:                true,
					TrustServerCertificate: true,
					Timeout:                60,
					Description:            "Same as production but with relaxed certificate validation",
				},
				{
					Name:                   "local_test",
					DisplayName:            "Local Test Server",
					Server:                 "localhost",
					Database:               "TestDB",
					Auth:                   "SqlPassword",
					Username:               "sa",
					PasswordEnv:            "SQL_PASSWORD",
					Encrypt:                true,
					TrustServerCertificate: true,
					Timeout:                30,
					Description:            "Local SQL Server instance for testing",
				},
				{
					Name:                   "docker_test",
					DisplayName:            "Docker SQL Server",
					Server:                 "127.0.0.1,1433",
					Database:               "master",
					Auth:                   "SqlPassword",
					Username:               "sa",
					PasswordEnv:            "SQL_PASSWORD",
					Encrypt:                true,
					TrustServerCertificate: true,
					Timeout:                60,
					Description:            "SQL Server running in Docker container",
				},
			},
		},
	}
}
