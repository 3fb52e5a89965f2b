package main

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// errNoStructs is returned when a source file has no tape-tagged
// structs to generate for; directory mode treats it as "skip", not a
// failure.
var errNoStructs = errors.New("tapegen: no tape-tagged structs found")

// Options configures how generation runs.
type Options struct {
	Verbose bool
	// Structs, if non-empty, restricts generation to the named struct
	// types. Names must match Go type names exactly, no package
	// qualification.
	Structs []string
	Logger  zerolog.Logger
}

type fieldSpec struct {
	GoName     string
	WireName   string
	OmitEmpty  string // zero-value test expression, "" if not omitempty
	CodecExpr  string // Codec[FieldType] expression
	IsPointer  bool
	ElemExpr   string // element Codec expression, used only when IsPointer
	GoTypeText string
}

type structSpec struct {
	Name   string
	Fields []fieldSpec
}

// Run generates tape codec.Codec[T] values for every tape-tagged
// struct in inputPath, writing the result to outputPath.
func Run(inputPath, outputPath string, opts Options) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, inputPath, nil, parser.ParseComments)
	if err != nil {
		return err
	}

	structs, err := collectStructs(file, opts)
	if err != nil {
		return err
	}
	if len(structs) == 0 {
		return errNoStructs
	}

	src, err := renderFile(file.Name.Name, structs)
	if err != nil {
		return err
	}

	formatted, err := format.Source(src)
	if err != nil {
		// Emit the unformatted source anyway so the caller can inspect
		// what generation produced; gofmt failures usually mean a
		// field type this generator doesn't understand yet.
		opts.Logger.Warn().Err(err).Str("output", outputPath).Msg("generated source did not gofmt cleanly")
		formatted = src
	}

	opts.Logger.Info().Str("input", inputPath).Str("output", outputPath).Int("structs", len(structs)).Msg("generated")
	return os.WriteFile(outputPath, formatted, 0o644)
}

func collectStructs(file *ast.File, opts Options) ([]structSpec, error) {
	var allowed map[string]struct{}
	if len(opts.Structs) > 0 {
		allowed = make(map[string]struct{}, len(opts.Structs))
		for _, name := range opts.Structs {
			name = strings.TrimSpace(name)
			if name != "" {
				allowed[name] = struct{}{}
			}
		}
	}

	var out []structSpec
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			if len(allowed) > 0 {
				if _, ok := allowed[ts.Name.Name]; !ok {
					continue
				}
			}
			ss, err := buildStructSpec(ts.Name.Name, st)
			if err != nil {
				return nil, err
			}
			if len(ss.Fields) > 0 {
				out = append(out, ss)
			}
		}
	}
	return out, nil
}

func buildStructSpec(name string, st *ast.StructType) (structSpec, error) {
	ss := structSpec{Name: name}
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			continue // anonymous/embedded fields are not handled
		}
		goName := field.Names[0].Name
		if !ast.IsExported(goName) {
			continue
		}
		tag, wireName, omitEmpty, ignore := parseTapeTag(field.Tag, goName)
		_ = tag
		if ignore {
			continue
		}

		fs := fieldSpec{GoName: goName, WireName: wireName}
		fs.GoTypeText = exprString(field.Type)

		if star, ok := field.Type.(*ast.StarExpr); ok {
			elemExpr, ok := codecExprFor(star.X)
			if !ok {
				continue // unsupported element type; skip the field rather than fail the whole struct
			}
			fs.IsPointer = true
			fs.ElemExpr = elemExpr
			if omitEmpty {
				fs.OmitEmpty = fmt.Sprintf("v.%s == nil", goName)
			}
			ss.Fields = append(ss.Fields, fs)
			continue
		}

		codecExpr, ok := codecExprFor(field.Type)
		if !ok {
			continue
		}
		fs.CodecExpr = codecExpr
		if omitEmpty {
			if cond, ok := zeroValueCond(goName, field.Type); ok {
				fs.OmitEmpty = cond
			}
		}
		ss.Fields = append(ss.Fields, fs)
	}
	return ss, nil
}

// parseTapeTag reads the `tape:"name,omitempty"` struct tag, falling
// back to the Go field name when absent. "tape:\"-\"" ignores the
// field entirely, the same convention encoding/json uses.
func parseTapeTag(tag *ast.BasicLit, goName string) (raw, wireName string, omitEmpty, ignore bool) {
	if tag == nil {
		return "", goName, false, false
	}
	unquoted, err := strconv.Unquote(tag.Value)
	if err != nil {
		return "", goName, false, false
	}
	val := ""
	for _, part := range strings.Split(unquoted, " ") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "tape:") {
			v, err := strconv.Unquote(strings.TrimPrefix(part, "tape:"))
			if err == nil {
				val = v
			}
			break
		}
	}
	if val == "" {
		return unquoted, goName, false, false
	}
	if val == "-" {
		return val, goName, false, true
	}
	fields := strings.Split(val, ",")
	name := strings.TrimSpace(fields[0])
	if name == "" {
		name = goName
	}
	for _, opt := range fields[1:] {
		if strings.TrimSpace(opt) == "omitempty" {
			omitEmpty = true
		}
	}
	return val, name, omitEmpty, false
}

func zeroValueCond(goName string, t ast.Expr) (string, bool) {
	switch e := t.(type) {
	case *ast.Ident:
		switch e.Name {
		case "string":
			return fmt.Sprintf(`v.%s == ""`, goName), true
		case "bool":
			return fmt.Sprintf(`!v.%s`, goName), true
		case "int", "int8", "int16", "int32", "int64",
			"uint", "uint8", "uint16", "uint32", "uint64",
			"float32", "float64":
			return fmt.Sprintf(`v.%s == 0`, goName), true
		}
		return "", false
	case *ast.ArrayType:
		return fmt.Sprintf(`len(v.%s) == 0`, goName), true
	case *ast.MapType:
		return fmt.Sprintf(`len(v.%s) == 0`, goName), true
	}
	return "", false
}

// codecExprFor maps a field's Go type to a codec.Codec[T] expression.
// Named (non-builtin) identifiers are assumed to have a sibling
// "<Type>Codec" value, either generated for a nested tape-tagged
// struct or hand-written by the caller.
func codecExprFor(t ast.Expr) (string, bool) {
	switch e := t.(type) {
	case *ast.Ident:
		switch e.Name {
		case "string":
			return "codec.String", true
		case "bool":
			return "codec.Bool", true
		case "int32":
			return "codec.Int32", true
		case "int", "int64":
			return "codec.Int64", true
		case "uint32":
			return "codec.Uint32", true
		case "uint", "uint64":
			return "codec.Uint64", true
		case "float32":
			return "codec.Float32", true
		case "float64":
			return "codec.Float64", true
		default:
			// Assume a sibling struct codec named <Type>Codec.
			return e.Name + "Codec", true
		}
	case *ast.ArrayType:
		if e.Len != nil {
			return "", false // fixed-size arrays are not handled
		}
		if ident, ok := e.Elt.(*ast.Ident); ok && (ident.Name == "byte" || ident.Name == "uint8") {
			return "codec.Bytes", true
		}
		elem, ok := codecExprFor(e.Elt)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("codec.ArrayCodec(%s)", elem), true
	case *ast.MapType:
		key, ok := e.Key.(*ast.Ident)
		if !ok || key.Name != "string" {
			return "", false // only string-keyed maps are handled
		}
		val, ok := codecExprFor(e.Value)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("codec.MapCodec(codec.String, %s)", val), true
	}
	return "", false
}

func exprString(t ast.Expr) string {
	var buf bytes.Buffer
	_ = format.Node(&buf, token.NewFileSet(), t)
	return buf.String()
}

func renderFile(pkg string, structs []structSpec) ([]byte, error) {
	var b strings.Builder
	b.WriteString("// Code generated by tapegen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	b.WriteString("import (\n")
	b.WriteString("\t\"github.com/tapeware/tapecodec/codec\"\n")
	b.WriteString("\t\"github.com/tapeware/tapecodec/wire\"\n")
	b.WriteString(")\n\n")

	for _, ss := range structs {
		renderStruct(&b, ss)
	}

	return []byte(b.String()), nil
}

func renderStruct(b *strings.Builder, ss structSpec) {
	fmt.Fprintf(b, "var %sCodec = codec.NewCodec(encode%s, decode%s)\n\n", ss.Name, ss.Name, ss.Name)

	fmt.Fprintf(b, "func encode%s(w *wire.Writer, v %s) error {\n", ss.Name, ss.Name)
	b.WriteString("\tn := uint64(0)\n")
	for _, f := range ss.Fields {
		if f.OmitEmpty == "" {
			b.WriteString("\tn++\n")
		} else {
			fmt.Fprintf(b, "\tif !(%s) {\n\t\tn++\n\t}\n", f.OmitEmpty)
		}
	}
	b.WriteString("\tif err := w.WriteMapHeader(n); err != nil {\n\t\treturn err\n\t}\n")
	for _, f := range ss.Fields {
		var body strings.Builder
		fmt.Fprintf(&body, "\tif err := codec.String.Encode(w, %q); err != nil {\n\t\treturn err\n\t}\n", f.WireName)
		if f.IsPointer {
			fmt.Fprintf(&body, "\tif v.%s == nil {\n", f.GoName)
			body.WriteString("\t\tif err := w.WriteNull(); err != nil {\n\t\t\treturn err\n\t\t}\n")
			body.WriteString("\t} else {\n")
			fmt.Fprintf(&body, "\t\tif err := %s.Encode(w, *v.%s); err != nil {\n\t\t\treturn err\n\t\t}\n", f.ElemExpr, f.GoName)
			body.WriteString("\t}\n")
		} else {
			fmt.Fprintf(&body, "\tif err := %s.Encode(w, v.%s); err != nil {\n\t\treturn err\n\t}\n", f.CodecExpr, f.GoName)
		}
		if f.OmitEmpty == "" {
			b.WriteString(body.String())
		} else {
			fmt.Fprintf(b, "\tif !(%s) {\n", f.OmitEmpty)
			b.WriteString(indent(body.String(), "\t"))
			b.WriteString("\t}\n")
		}
	}
	b.WriteString("\treturn nil\n}\n\n")

	fmt.Fprintf(b, "func decode%s(r *wire.Reader) (%s, error) {\n", ss.Name, ss.Name)
	fmt.Fprintf(b, "\tvar v %s\n", ss.Name)
	b.WriteString("\terr := codec.IterateMap(r, func(key string) error {\n")
	b.WriteString("\t\tswitch key {\n")
	for _, f := range ss.Fields {
		fmt.Fprintf(b, "\t\tcase %q:\n", f.WireName)
		if f.IsPointer {
			b.WriteString("\t\t\tif ok, err := r.TryReadNull(); err != nil {\n\t\t\t\treturn err\n\t\t\t} else if ok {\n")
			fmt.Fprintf(b, "\t\t\t\tv.%s = nil\n", f.GoName)
			b.WriteString("\t\t\t\treturn nil\n\t\t\t}\n")
			fmt.Fprintf(b, "\t\t\tval, err := %s.Decode(r)\n\t\t\tif err != nil {\n\t\t\t\treturn err\n\t\t\t}\n", f.ElemExpr)
			fmt.Fprintf(b, "\t\t\tv.%s = &val\n\t\t\treturn nil\n", f.GoName)
		} else {
			fmt.Fprintf(b, "\t\t\tval, err := %s.Decode(r)\n\t\t\tif err != nil {\n\t\t\t\treturn err\n\t\t\t}\n", f.CodecExpr)
			fmt.Fprintf(b, "\t\t\tv.%s = val\n\t\t\treturn nil\n", f.GoName)
		}
	}
	b.WriteString("\t\tdefault:\n\t\t\treturn r.SkipElement()\n\t\t}\n\t})\n")
	b.WriteString("\tif err != nil {\n\t\treturn v, err\n\t}\n")
	b.WriteString("\treturn v, nil\n}\n\n")
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(l)
	}
	return b.String()
}
