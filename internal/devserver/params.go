package devserver

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/broady/grpctypes"
	"github.com/broady/grpctypes/sink"
)

var (
	validate      = validator.New()
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
	_ = validate.RegisterValidation("pattern", func(fl validator.FieldLevel) bool {
		return sink.ValidatePath(fl.Field().String()) == nil
	})
	_ = validate.RegisterValidation("typemapping", func(fl validator.FieldLevel) bool {
		_, _, ok := splitMapping(fl.Field().String())
		return ok
	})
}

// Params is the query of /generate and /ir.
type Params struct {
	// Pattern selects schema files relative to the server root. Repeatable.
	Pattern []string `schema:"pattern" validate:"required,min=1,dive,pattern"`

	// Optional marks optional fields with "?". Absent keeps the server's
	// setting.
	Optional *bool `schema:"optional"`

	// List appends "List" to repeated field names. Absent means true.
	List *bool `schema:"list"`

	// Type adds a KEY:VALUE type mapping. Repeatable.
	Type []string `schema:"type" validate:"dive,typemapping"`

	// Indent is the indentation width. Zero keeps the default.
	Indent int `schema:"indent" validate:"gte=0,lte=16"`
}

// decodeParams decodes and validates a query.
func decodeParams(query url.Values) (*Params, error) {
	var p Params
	if err := schemaDecoder.Decode(&p, query); err != nil {
		return nil, grpctypes.Errorf(grpctypes.CodeInvalidArgument, "decode query: %v", err)
	}
	if err := validate.Struct(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// options overlays the request's settings on base.
func (p *Params) options(base grpctypes.Options) *grpctypes.Options {
	opts := base
	if p.Optional != nil {
		opts.Serialize.Optional = *p.Optional
	}
	if p.List != nil {
		opts.Serialize.List = p.List
	}
	if p.Indent > 0 {
		opts.Format.IndentWidth = p.Indent
	}
	if len(p.Type) > 0 {
		types := make(map[string]string, len(base.Types)+len(p.Type))
		for k, v := range base.Types {
			types[k] = v
		}
		for _, m := range p.Type {
			k, v, _ := splitMapping(m)
			types[k] = v
		}
		opts.Types = types
	}
	return &opts
}

// splitMapping splits "KEY:VALUE" at the first colon.
func splitMapping(m string) (string, string, bool) {
	k, v, ok := strings.Cut(m, ":")
	if !ok || k == "" || v == "" {
		return "", "", false
	}
	return k, v, true
}
