package commands_test

import (
	"os"
	"path/filepath"
	"testing"
)

const droidYAML = `app_id: 42
repo: https://github.com/example/app
branch: main
buildpacks:
  - uri: heroku/nodejs
  - uri: urn:cnb:registry:heroku/procfile@1.0.0
    optional: true
env:
  - NODE_ENV=production
stack:
  id: heroku-20
  build-image: heroku/heroku:20-cnb-build
  run-image: heroku/heroku:20-cnb
`

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}
