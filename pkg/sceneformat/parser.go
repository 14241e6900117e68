package sceneformat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Statement is one parsed scene-file directive, already carrying its typed
// parameter set; Build interprets a Statement stream sequentially against a
// graphicsState stack.
type Statement struct {
	Kind    string
	Subtype string
	Name    string // MakeNamedMaterial/NamedMaterial/ObjectBegin/ObjectInstance/Texture name
	Class   string // Texture's "float"/"spectrum" value class
	Params  ParamSet
	Numbers []float64 // LookAt/Translate/Rotate/Scale/Transform/ConcatTransform's bare numbers
	Tok     Token
}

var bareNumberDirectives = map[string]bool{
	"LookAt": true, "Translate": true, "Rotate": true, "Scale": true,
	"Transform": true, "ConcatTransform": true,
}

var blockDirectives = map[string]bool{
	"WorldBegin": true, "WorldEnd": true,
	"AttributeBegin": true, "AttributeEnd": true,
	"ObjectEnd": true, "ReverseOrientation": true,
}

var knownDirectives = map[string]bool{
	"LookAt": true, "Translate": true, "Rotate": true, "Scale": true,
	"Transform": true, "ConcatTransform": true,
	"Camera": true, "Film": true, "Sampler": true, "Integrator": true,
	"Material": true, "MakeNamedMaterial": true, "NamedMaterial": true,
	"Texture": true, "Shape": true, "LightSource": true, "AreaLightSource": true,
	"Include": true, "ObjectBegin": true, "ObjectEnd": true, "ObjectInstance": true,
	"WorldBegin": true, "WorldEnd": true, "AttributeBegin": true, "AttributeEnd": true,
	"ReverseOrientation": true,
}

// parser wraps a stack of lexers (one per Include nesting level) so each
// included file keeps its own file/line/column reporting.
type parser struct {
	lexers []*lexer
	cur    Token
	baseDir string
}

func newParser(file, content, baseDir string) (*parser, error) {
	p := &parser{lexers: []*lexer{newLexer(file, content)}, baseDir: baseDir}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	for len(p.lexers) > 0 {
		top := p.lexers[len(p.lexers)-1]
		tok, err := top.next()
		if err != nil {
			return err
		}
		if tok.Kind == TokEOF && len(p.lexers) > 1 {
			p.lexers = p.lexers[:len(p.lexers)-1]
			continue
		}
		p.cur = tok
		return nil
	}
	p.cur = Token{Kind: TokEOF}
	return nil
}

func (p *parser) pushInclude(path string) error {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(p.baseDir, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return errAt(p.cur, "Include %q: %v", path, err)
	}
	p.lexers = append(p.lexers, newLexer(full, string(data)))
	return p.advance()
}

// ParseFile reads and fully parses the scene file at path, following
// Include directives inline, and returns the flat statement stream Build
// consumes.
func ParseFile(path string) ([]Statement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sceneformat: reading %s: %w", path, err)
	}
	p, err := newParser(path, string(data), filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	return p.parseAll()
}

func (p *parser) parseAll() ([]Statement, error) {
	var out []Statement
	for p.cur.Kind != TokEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			out = append(out, *stmt)
		}
	}
	return out, nil
}

func (p *parser) parseStatement() (*Statement, error) {
	tok := p.cur
	if tok.Kind != TokIdent {
		return nil, errAt(tok, "expected directive, found %q", tok.Text)
	}
	name := tok.Text
	if !knownDirectives[name] {
		return nil, errAt(tok, "unknown directive %q", name)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if name == "Include" {
		fileTok := p.cur
		if fileTok.Kind != TokString {
			return nil, errAt(fileTok, "Include requires a quoted filename")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.pushInclude(fileTok.Text); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if blockDirectives[name] {
		return &Statement{Kind: name, Tok: tok}, nil
	}

	if bareNumberDirectives[name] {
		nums, err := p.parseNumberList(name)
		if err != nil {
			return nil, err
		}
		return &Statement{Kind: name, Numbers: nums, Tok: tok}, nil
	}

	switch name {
	case "ObjectBegin", "ObjectInstance":
		nameTok := p.cur
		if nameTok.Kind != TokString {
			return nil, errAt(nameTok, "%s requires a quoted name", name)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Statement{Kind: name, Name: nameTok.Text, Tok: tok}, nil
	case "NamedMaterial":
		nameTok := p.cur
		if nameTok.Kind != TokString {
			return nil, errAt(nameTok, "NamedMaterial requires a quoted name")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Statement{Kind: name, Name: nameTok.Text, Tok: tok}, nil
	case "MakeNamedMaterial":
		nameTok := p.cur
		if nameTok.Kind != TokString {
			return nil, errAt(nameTok, "MakeNamedMaterial requires a quoted name")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		subtype, params, err := p.parseSubtypeAndParams(false)
		if err != nil {
			return nil, err
		}
		return &Statement{Kind: name, Name: nameTok.Text, Subtype: subtype, Params: params, Tok: tok}, nil
	case "Texture":
		nameTok := p.cur
		if nameTok.Kind != TokString {
			return nil, errAt(nameTok, "Texture requires a quoted name")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		classTok := p.cur
		if classTok.Kind != TokString {
			return nil, errAt(classTok, "Texture requires a quoted value class (float/spectrum)")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		subtype, params, err := p.parseSubtypeAndParams(false)
		if err != nil {
			return nil, err
		}
		return &Statement{Kind: name, Name: nameTok.Text, Class: classTok.Text, Subtype: subtype, Params: params, Tok: tok}, nil
	default:
		subtype, params, err := p.parseSubtypeAndParams(true)
		if err != nil {
			return nil, err
		}
		return &Statement{Kind: name, Subtype: subtype, Params: params, Tok: tok}, nil
	}
}

func (p *parser) parseNumberList(directive string) ([]float64, error) {
	var nums []float64
	bracketed := p.cur.Kind == TokLBracket
	if bracketed {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	for {
		if bracketed && p.cur.Kind == TokRBracket {
			if err := p.advance(); err != nil {
				return nil, err
			}
			break
		}
		if !bracketed && (p.cur.Kind != TokNumber) {
			break
		}
		if p.cur.Kind != TokNumber {
			return nil, errAt(p.cur, "%s: expected number, found %q", directive, p.cur.Text)
		}
		var f float64
		if _, err := fmt.Sscanf(p.cur.Text, "%g", &f); err != nil {
			return nil, errAt(p.cur, "%s: invalid number %q", directive, p.cur.Text)
		}
		nums = append(nums, f)
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !bracketed {
			continue
		}
	}
	return nums, nil
}

// parseSubtypeAndParams reads an optional leading quoted subtype (when
// requireSubtype) followed by zero or more `"type name" value(s)` entries.
func (p *parser) parseSubtypeAndParams(requireSubtype bool) (string, ParamSet, error) {
	subtype := ""
	if requireSubtype {
		tok := p.cur
		if tok.Kind != TokString {
			return "", nil, errAt(tok, "expected quoted subtype, found %q", tok.Text)
		}
		subtype = tok.Text
		if err := p.advance(); err != nil {
			return "", nil, err
		}
	}

	params := ParamSet{}
	for p.cur.Kind == TokString {
		decl := p.cur
		parts := strings.Fields(decl.Text)
		if len(parts) != 2 {
			return "", nil, errAt(decl, "malformed parameter declaration %q", decl.Text)
		}
		ptype, pname := parts[0], parts[1]
		if err := p.advance(); err != nil {
			return "", nil, err
		}

		var values []string
		if p.cur.Kind == TokLBracket {
			if err := p.advance(); err != nil {
				return "", nil, err
			}
			for p.cur.Kind != TokRBracket {
				if p.cur.Kind == TokEOF {
					return "", nil, errAt(p.cur, "unterminated parameter array for %q", pname)
				}
				values = append(values, p.cur.Text)
				if err := p.advance(); err != nil {
					return "", nil, err
				}
			}
			if err := p.advance(); err != nil {
				return "", nil, err
			}
		} else {
			if p.cur.Kind == TokEOF {
				return "", nil, errAt(p.cur, "missing value for parameter %q", pname)
			}
			values = append(values, p.cur.Text)
			if err := p.advance(); err != nil {
				return "", nil, err
			}
		}
		params[pname] = Param{Type: ptype, Values: values}
	}
	return subtype, params, nil
}
