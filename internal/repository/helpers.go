package repository

import "strings"

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

// nullableBytes пустой хеш пишется как NULL
func nullableBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
