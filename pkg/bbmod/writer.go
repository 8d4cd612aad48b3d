package bbmod

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Options control how a scene is encoded.
type Options struct {
	Revision    Revision
	NodeLayout  NodeLayout
	RejectEmpty bool // Fail with ErrEmptyScene instead of writing a zero-mesh model
}

// DefaultOptions returns the latest revision with a single root node.
func DefaultOptions() Options {
	return Options{
		Revision:   LatestRevision,
		NodeLayout: NodeLayoutSingleRoot,
	}
}

// Writer turns scene snapshots into BBMOD documents.
type Writer struct {
	opts Options
}

// NewWriter validates the options and returns a writer.
func NewWriter(opts Options) (*Writer, error) {
	if !opts.Revision.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedRevision, uint8(opts.Revision))
	}
	if _, ok := nodeLayoutNames[opts.NodeLayout]; !ok {
		return nil, fmt.Errorf("unknown node layout %d", opts.NodeLayout)
	}
	return &Writer{opts: opts}, nil
}

// Document is an encoded model. Each block is kept separately until the
// document is written.
type Document struct {
	Revision Revision
	Format   VertexFormat

	Header    []byte
	FormatBlk []byte
	MeshBlk   []byte
	NodeBlk   []byte
	SkelBlk   []byte
	MatBlk    []byte

	MeshCount   int
	VertexCount int
	Nodes       []Node
	Materials   []Material
}

// blocks returns the sections in file order.
func (d *Document) blocks() [][]byte {
	return [][]byte{d.Header, d.FormatBlk, d.MeshBlk, d.NodeBlk, d.SkelBlk, d.MatBlk}
}

// Len returns the total encoded size.
func (d *Document) Len() int {
	n := 0
	for _, b := range d.blocks() {
		n += len(b)
	}
	return n
}

// Bytes concatenates the blocks in file order.
func (d *Document) Bytes() []byte {
	return bytes.Join(d.blocks(), nil)
}

// WriteTo writes the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, b := range d.blocks() {
		n, err := w.Write(b)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Encode runs every block encoder over the scene. The scene is only read.
func (w *Writer) Encode(scene *Scene, format VertexFormat) (*Document, error) {
	meshObjects := scene.MeshObjects()
	if len(meshObjects) == 0 && w.opts.RejectEmpty {
		return nil, ErrEmptyScene
	}

	// Dual quaternion nodes drop scale, so per-object nodes keep only the
	// rigid part and the rest goes into the vertices.
	if w.opts.NodeLayout == NodeLayoutPerObject && w.opts.Revision == Revision3 {
		split := make([]Object, len(meshObjects))
		for i, obj := range meshObjects {
			s, err := splitWorld(obj)
			if err != nil {
				return nil, fmt.Errorf("encoding mesh %d (%s): %w", i, obj.Name, err)
			}
			split[i] = s
		}
		meshObjects = split
	}

	doc := &Document{
		Revision:  w.opts.Revision,
		Format:    format,
		Header:    EncodeHeader(w.opts.Revision),
		FormatBlk: format.Encode(),
		MeshCount: len(meshObjects),
	}

	var declared []Material
	var bones []Bone
	if scene != nil {
		declared = scene.Materials
		bones = scene.Bones
	}
	materials, materialIndices := BuildMaterials(meshObjects, declared)
	doc.Materials = materials

	meshes := newEncoder(4)
	meshes.uint32(uint32(len(meshObjects)))
	for i, obj := range meshObjects {
		b, err := EncodeMesh(obj, materialIndices[i], format)
		if err != nil {
			return nil, fmt.Errorf("encoding mesh %d (%s): %w", i, obj.Name, err)
		}
		meshes.buf = append(meshes.buf, b...)
		doc.VertexCount += obj.Mesh.VertexCount()
	}
	doc.MeshBlk = meshes.bytes()

	doc.Nodes = BuildNodes(meshObjects, w.opts.NodeLayout)
	nodeBlk, err := EncodeNodes(doc.Nodes, len(meshObjects), w.opts.Revision)
	if err != nil {
		return nil, fmt.Errorf("encoding nodes: %w", err)
	}
	doc.NodeBlk = nodeBlk

	skelBlk, err := EncodeSkeleton(bones, w.opts.Revision)
	if err != nil {
		return nil, fmt.Errorf("encoding skeleton: %w", err)
	}
	doc.SkelBlk = skelBlk

	matBlk, err := EncodeMaterials(materials)
	if err != nil {
		return nil, fmt.Errorf("encoding materials: %w", err)
	}
	doc.MatBlk = matBlk

	return doc, nil
}

// Result summarizes a finished export.
type Result struct {
	Path      string
	Size      int64
	Revision  Revision
	Meshes    int
	Vertices  int
	Nodes     int
	Materials int
}

// Export encodes the scene and writes it to path in one atomic step.
func (w *Writer) Export(scene *Scene, format VertexFormat, path string) (*Result, error) {
	doc, err := w.Encode(scene, format)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(path, doc); err != nil {
		return nil, err
	}
	return &Result{
		Path:      path,
		Size:      int64(doc.Len()),
		Revision:  doc.Revision,
		Meshes:    doc.MeshCount,
		Vertices:  doc.VertexCount,
		Nodes:     len(doc.Nodes),
		Materials: len(doc.Materials),
	}, nil
}

// ExportModel encodes scene with the given vertex format and writes it to
// path. Nothing is left at path when it fails.
func ExportModel(scene *Scene, format VertexFormat, path string, opts Options) (*Result, error) {
	w, err := NewWriter(opts)
	if err != nil {
		return nil, err
	}
	return w.Export(scene, format, path)
}

// writeFileAtomic writes doc to a temporary file next to path and renames it
// into place, so readers never see a partial model.
func writeFileAtomic(path string, doc *Document) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if _, err = doc.WriteTo(f); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrIO, tmp, err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("%w: syncing %s: %w", ErrIO, tmp, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %w", ErrIO, tmp, err)
	}
	if err = os.Chmod(tmp, 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
