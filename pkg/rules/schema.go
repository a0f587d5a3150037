package rules

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/types"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema/rule.schema.yaml
var ruleSchemaYAML []byte

var (
	schemaOnce sync.Once
	ruleSchema *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var data interface{}
		if err := yaml.Unmarshal(ruleSchemaYAML, &data); err != nil {
			schemaErr = err
			return
		}
		jsonBytes, err := json.Marshal(data)
		if err != nil {
			schemaErr = err
			return
		}
		ruleSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(jsonBytes))
	})
	return ruleSchema, schemaErr
}

// ValidateSchema checks the serialized form of a rule against the embedded
// JSON schema.
func ValidateSchema(rule types.Rule) error {
	schema, err := compiledSchema()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "rule schema is broken")
	}
	doc, err := json.Marshal(rule)
	if err != nil {
		return errors.Wrap(err, errors.ErrRuleInvalid, "cannot encode rule")
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return errors.Wrap(err, errors.ErrRuleInvalid, "cannot validate rule")
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		field := verr.Field()
		if field == "" || field == "(root)" {
			field = "rule"
		}
		problems = append(problems, fmt.Sprintf("%s: %s", field, verr.Description()))
	}
	return errors.Newf(errors.ErrRuleInvalid, "rule %q is invalid: %s", rule.Name, strings.Join(problems, "; ")).
		WithDetail("problems", problems)
}
