package cmd

import (
	"encoding/json"
	"fmt"
	"io"
)

func printJSON(w io.Writer, obj interface{}) {
	json, _ := json.MarshalIndent(obj, "", "  ")
	fmt.Fprintln(w, string(json))
}
