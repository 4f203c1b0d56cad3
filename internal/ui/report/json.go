// # internal/ui/report/json.go
package report

import (
	"encoding/json"

	"mainseq/internal/core/app"
)

func renderJSON(result *app.Result) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
