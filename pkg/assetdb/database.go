package assetdb

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/logging"
	"github.com/arthur-debert/assetaudit/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MetaExt is the sidecar extension holding import settings.
const MetaExt = ".meta"

// Entry is one item of a directory listing.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
}

// Database resolves assets and importers inside one project.
type Database struct {
	fs        types.FS
	root      string
	assetsDir string
	guids     map[string]string
	logger    zerolog.Logger
}

// Open returns a database for the project at root. assetsDir is the
// project-relative asset container, normally "Assets".
func Open(fsys types.FS, root, assetsDir string) *Database {
	if assetsDir == "" {
		assetsDir = "Assets"
	}
	return &Database{
		fs:        fsys,
		root:      root,
		assetsDir: strings.Trim(assetsDir, "/"),
		logger:    logging.GetLogger("assetdb"),
	}
}

// FS returns the filesystem the database reads from.
func (d *Database) FS() types.FS { return d.fs }

// Root is the project directory.
func (d *Database) Root() string { return d.root }

// AssetsDir is the project-relative asset container.
func (d *Database) AssetsDir() string { return d.assetsDir }

// AbsPath converts a project-relative path to a filesystem path.
func (d *Database) AbsPath(rel string) string {
	return filepath.Join(d.root, filepath.FromSlash(rel))
}

// RelPath converts a filesystem path under the project to a project-relative one.
func (d *Database) RelPath(abs string) (string, error) {
	rel, err := filepath.Rel(d.root, abs)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "%s is outside the project", abs)
	}
	return filepath.ToSlash(rel), nil
}

// Exists reports whether a file or folder exists at rel.
func (d *Database) Exists(rel string) bool {
	_, err := d.fs.Stat(d.AbsPath(rel))
	return err == nil
}

// IsValidFolder reports whether rel is an existing folder.
func (d *Database) IsValidFolder(rel string) bool {
	info, err := d.fs.Stat(d.AbsPath(rel))
	return err == nil && info.IsDir()
}

// ReadDir lists a folder. Entries are sorted by name.
func (d *Database) ReadDir(rel string) ([]Entry, error) {
	entries, err := d.fs.ReadDir(d.AbsPath(rel))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", rel)
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, Entry{Name: e.Name(), Path: path.Join(rel, e.Name()), IsDir: e.IsDir()})
	}
	return out, nil
}

// MainTypeAtPath returns the main type of the asset at rel, TypeUnknown if
// there is no asset there.
func (d *Database) MainTypeAtPath(rel string) AssetType {
	info, err := d.fs.Stat(d.AbsPath(rel))
	if err != nil {
		return TypeUnknown
	}
	if info.IsDir() {
		return TypeDefaultAsset
	}
	return MainTypeForPath(rel)
}

// ImporterAtPath loads the importer of the asset at rel.
func (d *Database) ImporterAtPath(rel string) (*Importer, error) {
	data, err := d.fs.ReadFile(d.AbsPath(rel + MetaExt))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrImporterNotFound, "no importer for %s", rel)
	}
	imp, err := ParseMeta(rel, data)
	if err != nil {
		return nil, err
	}
	if d.guids != nil {
		d.guids[imp.GUID()] = rel
	}
	return imp, nil
}

// PathForGUID resolves an asset guid to its path.
func (d *Database) PathForGUID(guid string) (string, error) {
	if d.guids == nil {
		if err := d.Reindex(); err != nil {
			return "", err
		}
	}
	if p, ok := d.guids[guid]; ok {
		if d.Exists(p) {
			return p, nil
		}
		delete(d.guids, guid)
	}
	return "", errors.Newf(errors.ErrAssetNotFound, "no asset with guid %s", guid).WithDetail("guid", guid)
}

// Reindex rebuilds the guid index by reading every meta file.
func (d *Database) Reindex() error {
	index := make(map[string]string)
	err := d.walk(d.assetsDir, func(rel string, isDir bool) error {
		if !strings.HasSuffix(rel, MetaExt) {
			return nil
		}
		data, err := d.fs.ReadFile(d.AbsPath(rel))
		if err != nil {
			return nil
		}
		asset := strings.TrimSuffix(rel, MetaExt)
		imp, err := ParseMeta(asset, data)
		if err != nil {
			d.logger.Debug().Err(err).Str("path", rel).Msg("Skipping unreadable meta file")
			return nil
		}
		index[imp.GUID()] = asset
		return nil
	})
	if err != nil {
		return err
	}
	d.guids = index
	d.logger.Debug().Int("assets", len(index)).Msg("GUID index rebuilt")
	return nil
}

func (d *Database) walk(rel string, fn func(rel string, isDir bool) error) error {
	entries, err := d.ReadDir(rel)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := fn(e.Path, e.IsDir); err != nil {
			return err
		}
		if e.IsDir {
			if err := d.walk(e.Path, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateFolder creates rel and any missing parents, each with a folder meta.
func (d *Database) CreateFolder(rel string) error {
	rel = strings.Trim(rel, "/")
	parts := strings.Split(rel, "/")
	for i := range parts {
		dir := strings.Join(parts[:i+1], "/")
		if d.IsValidFolder(dir) {
			continue
		}
		if err := d.fs.MkdirAll(d.AbsPath(dir), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "cannot create folder %s", dir)
		}
		if dir == d.assetsDir {
			continue
		}
		imp := newImporter(dir, NewGUID(), ClassDefault, nil, true)
		if err := d.WriteImportSettings(imp); err != nil {
			return err
		}
		d.logger.Info().Str("path", dir).Msg("Created folder")
	}
	return nil
}

// CopyAsset duplicates the asset at src to dst. The copy gets a fresh guid
// and a copy of the source's import settings.
func (d *Database) CopyAsset(src, dst string) (*Importer, error) {
	if d.Exists(dst) {
		return nil, errors.Newf(errors.ErrAlreadyExists, "asset already exists at %s", dst).WithDetail("path", dst)
	}
	data, err := d.fs.ReadFile(d.AbsPath(src))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrAssetNotFound, "cannot read asset %s", src)
	}
	if err := d.fs.MkdirAll(d.AbsPath(path.Dir(dst)), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create folder for %s", dst)
	}
	if err := d.fs.WriteFile(d.AbsPath(dst), data, 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "cannot write asset %s", dst)
	}

	var imp *Importer
	if srcImp, err := d.ImporterAtPath(src); err == nil {
		imp = newImporter(dst, NewGUID(), srcImp.Class(), cloneNode(srcImp.body()), false)
	} else {
		d.logger.Debug().Err(err).Str("path", src).Msg("Source has no importer, writing defaults")
		imp = newImporter(dst, NewGUID(), DefaultImporterClass(dst), nil, false)
	}
	if err := d.WriteImportSettings(imp); err != nil {
		return nil, err
	}
	d.logger.Info().Str("from", src).Str("to", dst).Str("guid", imp.GUID()).Msg("Asset copied")
	return imp, nil
}

// WriteImportSettings persists an importer to its meta file.
func (d *Database) WriteImportSettings(imp *Importer) error {
	data, err := imp.Marshal()
	if err != nil {
		return err
	}
	if err := d.fs.WriteFile(d.AbsPath(imp.Path()+MetaExt), data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write import settings for %s", imp.Path())
	}
	imp.dirty = false
	if d.guids != nil {
		d.guids[imp.GUID()] = imp.Path()
	}
	return nil
}

// ImportAsset reimports the asset at rel: its meta file is read back and
// the guid index refreshed.
func (d *Database) ImportAsset(rel string) (*Importer, error) {
	imp, err := d.ImporterAtPath(rel)
	if err != nil {
		return nil, err
	}
	d.logger.Debug().Str("path", rel).Str("importer", imp.Class()).Msg("Asset reimported")
	return imp, nil
}

// NewGUID returns a new 32 character hex asset guid.
func NewGUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")
}

// IsMeta reports whether rel is a meta sidecar.
func IsMeta(rel string) bool {
	return strings.HasSuffix(rel, MetaExt)
}
