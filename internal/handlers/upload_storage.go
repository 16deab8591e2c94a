package handlers

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	publicRootDir    = "./public"
	productUploadDir = "uploads/products"
	avatarUploadDir  = "uploads/avatars"
)

// safeDeleteUpload removes a previously uploaded file. Paths outside the
// uploads tree are refused so a corrupted document can never delete
// arbitrary files.
func safeDeleteUpload(relPath string) error {
	trimmed := strings.TrimSpace(relPath)
	if trimmed == "" {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	cleanRel = strings.TrimPrefix(cleanRel, "/")

	if !strings.HasPrefix(cleanRel, "uploads/") {
		return fmt.Errorf("refusing to delete non-upload path: %s", relPath)
	}

	cleanBase, err := filepath.Abs(publicRootDir)
	if err != nil {
		return err
	}
	targetPath := filepath.Join(cleanBase, filepath.FromSlash(cleanRel))
	cleanTarget := filepath.Clean(targetPath)
	if cleanTarget != cleanBase && !strings.HasPrefix(cleanTarget, cleanBase+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside public root: %s", relPath)
	}

	if err := os.Remove(cleanTarget); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return nil
}
