package assetdb

import (
	"bytes"

	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/properties"
	"gopkg.in/yaml.v3"
)

// Header keys of a meta document that are not the importer section.
var headerKeys = map[string]bool{
	"fileFormatVersion": true,
	"guid":              true,
	"timeCreated":       true,
	"licenseType":       true,
	"folderAsset":       true,
}

// Importer is the live, mutable import configuration of one asset, backed
// by its meta document.
type Importer struct {
	path  string
	doc   *yaml.Node
	root  *yaml.Node
	class string
	dirty bool
}

// ParseMeta parses a meta document for the asset at assetPath.
func ParseMeta(assetPath string, data []byte) (*Importer, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrImporterParse, "invalid meta file for %s", assetPath)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errors.Newf(errors.ErrImporterParse, "meta file for %s is not a mapping", assetPath)
	}
	imp := &Importer{path: assetPath, doc: &doc, root: doc.Content[0]}
	for i := 0; i+1 < len(imp.root.Content); i += 2 {
		key := imp.root.Content[i].Value
		if !headerKeys[key] {
			imp.class = key
			break
		}
	}
	if imp.class == "" {
		return nil, errors.Newf(errors.ErrImporterNotFound, "meta file for %s has no importer section", assetPath).
			WithDetail("path", assetPath)
	}
	if imp.GUID() == "" {
		return nil, errors.Newf(errors.ErrImporterParse, "meta file for %s has no guid", assetPath)
	}
	return imp, nil
}

// newImporter builds a fresh meta document.
func newImporter(assetPath, guid, class string, body *yaml.Node, folder bool) *Importer {
	if body == nil {
		body = &yaml.Node{Kind: yaml.MappingNode}
		setMappingValue(body, "externalObjects", &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle})
		setMappingValue(body, "userData", scalar(""))
		setMappingValue(body, "assetBundleName", scalar(""))
		setMappingValue(body, "assetBundleVariant", scalar(""))
	}
	root := &yaml.Node{Kind: yaml.MappingNode}
	setMappingValue(root, "fileFormatVersion", scalar("2"))
	setMappingValue(root, "guid", stringScalar(guid))
	if folder {
		setMappingValue(root, "folderAsset", scalar("yes"))
	}
	setMappingValue(root, class, body)
	return &Importer{
		path:  assetPath,
		doc:   &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}},
		root:  root,
		class: class,
		dirty: true,
	}
}

// Path is the asset path this importer belongs to.
func (i *Importer) Path() string { return i.path }

// Class is the importer class, e.g. TextureImporter.
func (i *Importer) Class() string { return i.class }

// GUID is the asset's stable identifier.
func (i *Importer) GUID() string {
	v, _ := mappingValue(i.root, "guid")
	if v == nil {
		return ""
	}
	return v.Value
}

// Dirty reports whether the importer changed since it was loaded or saved.
func (i *Importer) Dirty() bool { return i.dirty }

func (i *Importer) body() *yaml.Node {
	v, idx := mappingValue(i.root, i.class)
	if v == nil {
		return nil
	}
	if v.Kind != yaml.MappingNode {
		// "TextureImporter:" with no settings parses as null.
		v = &yaml.Node{Kind: yaml.MappingNode}
		i.root.Content[idx] = v
	}
	return v
}

// Settings returns a copy of the importer's settings mapping.
func (i *Importer) Settings() *yaml.Node {
	return cloneNode(i.body())
}

// Snapshot returns an immutable property tree of the current settings.
func (i *Importer) Snapshot(hints properties.Hints) (*properties.Tree, error) {
	return properties.Build(i.body(), hints)
}

// Property returns a copy of the top-level setting called name.
func (i *Importer) Property(name string) (*yaml.Node, bool) {
	v, _ := mappingValue(i.body(), name)
	if v == nil {
		return nil, false
	}
	return cloneNode(v), true
}

// ResolveDisplayName maps an editor label back to the top-level setting it
// names.
func (i *Importer) ResolveDisplayName(display string) (string, bool) {
	body := i.body()
	if body == nil {
		return "", false
	}
	for j := 0; j+1 < len(body.Content); j += 2 {
		if properties.Nicify(body.Content[j].Value) == display {
			return body.Content[j].Value, true
		}
	}
	return "", false
}

// CopyFrom replaces this importer's settings with a copy of ref's. The
// top-level keys in preserve keep this importer's own values, so noise such
// as user data and the recycle-name table survive the copy.
func (i *Importer) CopyFrom(ref *Importer, preserve ...string) error {
	if ref.class != i.class {
		return errors.Newf(errors.ErrImporterMismatch, "cannot copy %s settings onto %s", ref.class, i.class).
			WithDetail("path", i.path)
	}
	own := i.body()
	copied := cloneNode(ref.body())
	for _, key := range preserve {
		if v, _ := mappingValue(own, key); v != nil {
			setMappingValue(copied, key, cloneNode(v))
		}
	}
	_, idx := mappingValue(i.root, i.class)
	i.root.Content[idx] = copied
	i.dirty = true
	return nil
}

// CopyProperty copies one top-level property from ref onto this importer.
func (i *Importer) CopyProperty(ref *Importer, name string) error {
	if ref.class != i.class {
		return errors.Newf(errors.ErrImporterMismatch, "cannot copy %s property onto %s", ref.class, i.class).
			WithDetail("path", i.path)
	}
	v, _ := mappingValue(ref.body(), name)
	if v == nil {
		return errors.Newf(errors.ErrPropertyNotFound, "reference has no property %q", name).
			WithDetail("path", ref.path)
	}
	setMappingValue(i.body(), name, cloneNode(v))
	i.dirty = true
	return nil
}

// UserData returns the importer's freeform user data string.
func (i *Importer) UserData() string {
	v, _ := mappingValue(i.body(), "userData")
	if v == nil || v.Tag == "!!null" {
		return ""
	}
	return v.Value
}

// SetUserData replaces the importer's freeform user data string.
func (i *Importer) SetUserData(s string) {
	node := scalar(s)
	if s != "" {
		node = stringScalar(s)
	}
	setMappingValue(i.body(), "userData", node)
	i.dirty = true
}

// Marshal renders the meta document.
func (i *Importer) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(i.doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrImporterParse, "failed to encode meta for %s", i.path)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrImporterParse, "failed to encode meta for %s", i.path)
	}
	return buf.Bytes(), nil
}

// MarshalSettings renders only the settings mapping, without the keys in
// omit. It is used to diff two importers.
func (i *Importer) MarshalSettings(omit ...string) (string, error) {
	body := cloneNode(i.body())
	if body == nil {
		return "", nil
	}
	skip := make(map[string]bool, len(omit))
	for _, k := range omit {
		skip[k] = true
	}
	filtered := body.Content[:0]
	for j := 0; j+1 < len(body.Content); j += 2 {
		if !skip[body.Content[j].Value] {
			filtered = append(filtered, body.Content[j], body.Content[j+1])
		}
	}
	body.Content = filtered

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(body); err != nil {
		return "", errors.Wrapf(err, errors.ErrImporterParse, "failed to encode settings for %s", i.path)
	}
	_ = enc.Close()
	return buf.String(), nil
}
