package spec_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pkordes/trip-itinerary/spec"
)

type document struct {
	OpenAPI string                    `yaml:"openapi"`
	Paths   map[string]map[string]any `yaml:"paths"`
}

// TestOpenAPI_documentsEveryRoute keeps openapi.yaml in step with the routes
// registered by handler.Server.Routes.
func TestOpenAPI_documentsEveryRoute(t *testing.T) {
	var doc document
	require.NoError(t, yaml.Unmarshal(spec.OpenAPI, &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)

	want := map[string][]string{
		"/healthz":    {"get"},
		"/trips":      {"get", "post"},
		"/trips/{id}": {"get", "put", "delete"},
	}
	for path, methods := range want {
		item, ok := doc.Paths[path]
		require.Truef(t, ok, "path %s missing", path)
		for _, m := range methods {
			assert.Containsf(t, item, m, "%s %s missing", m, path)
		}
	}
	assert.Len(t, doc.Paths, len(want))
}

func TestOpenAPI_operationIDsAreUnique(t *testing.T) {
	var doc document
	require.NoError(t, yaml.Unmarshal(spec.OpenAPI, &doc))

	var ids []string
	for _, item := range doc.Paths {
		for method, op := range item {
			if method == "parameters" {
				continue
			}
			fields, ok := op.(map[string]any)
			require.Truef(t, ok, "%s is not an operation", method)
			id, _ := fields["operationId"].(string)
			require.NotEmptyf(t, id, "operationId missing")
			assert.Falsef(t, slices.Contains(ids, id), "duplicate operationId %s", id)
			ids = append(ids, id)
		}
	}
	assert.Len(t, ids, 6)
}
