// Package opc reads Open Packaging Conventions containers such as .docx
// files.
//
// A Package is opened read-only from a zip archive. It exposes the part
// inventory with resolved content types, the relationships of any source
// part, and a concurrent decode step that parses every XML part into a DOM
// tree once so that validation rules can share the result.
//
//	pkg, err := opc.Open(path, opc.WithMaxPartSize(64<<20))
//	if err != nil {
//		return err
//	}
//	defer pkg.Close()
//
//	if err := pkg.Decode(ctx, runtime.NumCPU()); err != nil {
//		return err
//	}
//	doc, _ := pkg.Document(pkg.MainDocument())
package opc
