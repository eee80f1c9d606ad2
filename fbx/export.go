package fbx

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Struct fields are written by their `fbx` tag:
//
//	(none)  child node, slices repeat the node
//	p       value listed after the node name
//	a       "Name: *N { a: v,v }" array block
//	i       "Name: v, v" on one line
type fieldKind int

const (
	fieldNode fieldKind = iota
	fieldProperty
	fieldArray
	fieldList
)

func kindOf(f reflect.StructField) (fieldKind, error) {
	tag := f.Tag.Get("fbx")
	if tag == "" {
		return fieldNode, nil
	}
	switch strings.SplitN(tag, ",", 2)[0] {
	case "p":
		return fieldProperty, nil
	case "a":
		return fieldArray, nil
	case "i":
		return fieldList, nil
	}
	return fieldNode, errors.Errorf("field %s: unknown fbx tag %q", f.Name, tag)
}

func scalar(v reflect.Value) (string, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits()), true
	case reflect.String:
		return `"` + v.String() + `"`, true
	case reflect.Bool:
		if v.Bool() {
			return "T", true
		}
		return "F", true
	}
	return "", false
}

func scalars(v reflect.Value) []string {
	values := make([]string, v.Len())
	for i := range values {
		values[i], _ = scalar(v.Index(i))
	}
	return values
}

type exporter struct {
	w     *bufio.Writer
	depth int
	err   error
}

func (e *exporter) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *exporter) indent(extra int) {
	for i := 0; i < e.depth+extra; i++ {
		e.w.WriteByte('\t')
	}
}

func (e *exporter) write(s string) {
	e.w.WriteString(s)
}

// properties writes the flattened values of v, n counts values already written.
func (e *exporter) properties(v reflect.Value, n *int) {
	switch v.Kind() {
	case reflect.Interface, reflect.Ptr:
		if !v.IsNil() {
			e.properties(v.Elem(), n)
		}
		return
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			e.properties(v.Index(i), n)
		}
		return
	}

	s, ok := scalar(v)
	if !ok {
		e.fail(errors.Errorf("unsupported property kind %v", v.Kind()))
		return
	}
	if *n != 0 {
		e.write(", ")
	}
	e.write(s)
	*n++
}

func (e *exporter) structNode(name string, v reflect.Value) {
	t := v.Type()
	named := e.depth >= 0

	e.indent(0)
	if named {
		e.write(name + ": ")
	}

	n := 0
	for i := 0; i < t.NumField(); i++ {
		if k, err := kindOf(t.Field(i)); err == nil && k == fieldProperty {
			e.properties(v.Field(i), &n)
		}
	}

	open := false
	openBlock := func() {
		if open {
			return
		}
		open = true
		if named {
			if n != 0 {
				e.write(" ")
			}
			e.write("{\n")
		}
	}
	// top level nodes always get a block
	if e.depth == 0 {
		openBlock()
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		k, err := kindOf(f)
		if err != nil {
			e.fail(err)
			continue
		}
		if k == fieldProperty {
			continue
		}

		openBlock()
		e.depth++
		switch k {
		case fieldArray:
			e.array(f.Name, v.Field(i))
		case fieldList:
			e.list(f.Name, v.Field(i))
		default:
			e.node(f.Name, v.Field(i))
		}
		e.depth--
	}

	if !named {
		return
	}
	if open {
		e.indent(0)
		e.write("}")
	}
	e.write("\n")
	if e.depth == 0 {
		e.write("\n")
	}
}

func (e *exporter) list(name string, v reflect.Value) {
	if v.IsNil() {
		return
	}
	e.indent(0)
	e.write(name + ": " + strings.Join(scalars(v), ", ") + "\n")
}

func (e *exporter) array(name string, v reflect.Value) {
	switch v.Kind() {
	case reflect.Interface, reflect.Ptr:
		if !v.IsNil() {
			e.array(name, v.Elem())
		}
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return
		}
		values := scalars(v)
		e.indent(0)
		e.write(fmt.Sprintf("%s: *%d {\n", name, len(values)))
		e.indent(1)
		e.write("a: " + strings.Join(values, ",") + "\n")
		e.indent(0)
		e.write("}\n")
	default:
		e.fail(errors.Errorf("%s: unsupported array kind %v", name, v.Kind()))
	}
}

func (e *exporter) node(name string, v reflect.Value) {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		e.structNode(name, v)
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			e.node(name, v.Index(i))
		}
	default:
		if s, ok := scalar(v); ok {
			e.indent(0)
			e.write(name + ": " + s + "\n")
		}
	}
}

func (f *FBX) Export(w io.Writer) error {
	return Export(f, w)
}

// AddExportFile attaches an extra file to ExportZip output.
func (f *FBX) AddExportFile(name string, data []byte) {
	if f.files == nil {
		f.files = make(map[string][]byte)
	}
	f.files[name] = data
}

// ExportZip writes the ascii fbx as name followed by the attached files in name order.
func (f *FBX) ExportZip(w io.Writer, name string) error {
	zw := zip.NewWriter(w)

	fbxW, err := zw.Create(name)
	if err != nil {
		return errors.Wrapf(err, "Can't create zip fbx for %q", name)
	}
	if err := f.Export(fbxW); err != nil {
		return err
	}

	names := make([]string, 0, len(f.files))
	for name := range f.files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fw, err := zw.Create(name)
		if err != nil {
			return errors.Wrapf(err, "Can't create zip for %q", name)
		}
		if _, err := fw.Write(f.files[name]); err != nil {
			return errors.Wrapf(err, "Can't write zip for %q", name)
		}
	}

	return zw.Close()
}

func Export(f *FBX, w io.Writer) error {
	bw := bufio.NewWriter(w)
	e := &exporter{w: bw, depth: -1}

	fmt.Fprintf(bw, "; FBX 7.4.0 project file\n; Created by %s\n\n", f.FBXHeaderExtension.Creator)
	e.node("", reflect.ValueOf(f))
	if e.err != nil {
		return errors.Wrapf(e.err, "Fbx exporting failed")
	}
	return bw.Flush()
}
