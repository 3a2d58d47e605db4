//go:build js && wasm
// +build js,wasm

package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/0xsl1m/StaticChapel-sub001/internal/material"
	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

// GenerateTextureRequest represents a texture generation request from JS
type GenerateTextureRequest struct {
	Material string `json:"material"`
	Size     int    `json:"size"`
	Seed     int64  `json:"seed"`
}

// GenerateTextureResponse carries every map of the set as a PNG data URL.
type GenerateTextureResponse struct {
	Material    string            `json:"material"`
	Wrap        string            `json:"wrap"`
	Transparent bool              `json:"transparent"`
	Maps        map[string]string `json:"maps"`
}

// generateTexture is called from JavaScript to build one material in the browser.
// Arguments: a JSON encoded GenerateTextureRequest. Returns a JSON string.
func generateTexture(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorJSON("missing arguments")
	}

	var req GenerateTextureRequest
	if err := json.Unmarshal([]byte(args[0].String()), &req); err != nil {
		return errorJSON(fmt.Sprintf("failed to parse request: %v", err))
	}
	if req.Size == 0 {
		req.Size = 256
	}

	gen, err := material.New(material.Config{Size: req.Size, Seed: req.Seed, FieldSize: 64})
	if err != nil {
		return errorJSON(err.Error())
	}
	set, err := gen.Generate(context.Background(), req.Material)
	if err != nil {
		return errorJSON(err.Error())
	}

	resp := GenerateTextureResponse{
		Material:    set.Material(),
		Transparent: set.Transparent(),
		Maps:        make(map[string]string),
	}
	if d, ok := set.Map(texture.Diffuse); ok {
		resp.Wrap = string(d.Wrap)
	}
	for _, kind := range set.Kinds() {
		m, _ := set.Map(kind)

		var buf bytes.Buffer
		if err := m.EncodePNG(&buf); err != nil {
			return errorJSON(err.Error())
		}
		resp.Maps[string(kind)] = "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return errorJSON(err.Error())
	}
	return string(out)
}

func listMaterials(this js.Value, args []js.Value) interface{} {
	names := material.Names()
	out := make([]interface{}, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}

func errorJSON(msg string) string {
	out, _ := json.Marshal(map[string]string{"error": msg})
	return string(out)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("chapeltexGenerate", js.FuncOf(generateTexture))
	js.Global().Set("chapeltexMaterials", js.FuncOf(listMaterials))

	fmt.Println("chapeltex WASM module loaded")
	<-c
}
