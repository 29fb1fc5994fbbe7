package testing

// WithFiles writes each path/content pair into the connection's filesystem.
func WithFiles(conn *MockConn, files map[string]string) *MockConn {
	for path, content := range files {
		_ = conn.GetFS().WriteFile(path, []byte(content))
	}
	return conn
}

// WithProc fills /proc/stat, /proc/meminfo and /proc/net/dev.
func WithProc(conn *MockConn, stat, meminfo, netdev string) *MockConn {
	return WithFiles(conn, map[string]string{
		"/proc/stat":    stat,
		"/proc/meminfo": meminfo,
		"/proc/net/dev": netdev,
	})
}
