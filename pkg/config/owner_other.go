//go:build !unix

package config

import "os"

// Windows directories under the user profile are private by ACL.
func checkOwnership(info os.FileInfo) error {
	return nil
}
