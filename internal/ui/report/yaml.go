// # internal/ui/report/yaml.go
package report

import (
	"gopkg.in/yaml.v3"

	"mainseq/internal/core/app"
)

func renderYAML(result *app.Result) ([]byte, error) {
	return yaml.Marshal(result)
}
