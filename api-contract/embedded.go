// Package apicontract embeds the OpenAPI specification.
package apicontract

import _ "embed"

//go:embed openapi.yml
var specBytes []byte

// GetSpecBytes returns the raw OpenAPI document.
func GetSpecBytes() []byte {
	return specBytes
}
