package templates

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed files
var builtinFS embed.FS

func loadBuiltin(key string) (*Template, error) {
	data, err := builtinFS.ReadFile(path.Join("files", key+".tmpl"))
	if err != nil {
		return nil, err
	}
	return parseTemplate(key, string(data))
}

func isBuiltin(key string) bool {
	_, err := fs.Stat(builtinFS, path.Join("files", key+".tmpl"))
	return err == nil
}

// listBuiltins returns info for all embedded templates in lexical key order.
func listBuiltins() []Info {
	var infos []Info
	_ = fs.WalkDir(builtinFS, "files", func(p string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() || !strings.HasSuffix(p, ".tmpl") {
			return nil
		}
		key := strings.TrimSuffix(strings.TrimPrefix(p, "files/"), ".tmpl")
		tmpl, loadErr := loadBuiltin(key)
		if loadErr != nil {
			return nil
		}
		infos = append(infos, Info{Key: key, Description: tmpl.Description, Source: "built-in"})
		return nil
	})
	return infos
}
