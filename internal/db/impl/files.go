package impl

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/filecat/internal/db"
	"github.com/sidereusnuntius/filecat/internal/domain"
	"github.com/sidereusnuntius/filecat/internal/graph"
)

var v = graph.Var

func metadataTriples(s graph.Term, m domain.FileMetadata) []graph.Triple {
	return []graph.Triple{
		graph.T(s, graph.Format, graph.String(m.Format)),
		graph.T(s, graph.FileSize, graph.Integer(m.SizeBytes)),
		graph.T(s, graph.FileExtension, graph.String(m.Extension)),
		graph.T(s, graph.Created, graph.DateTime(m.CreatedAt)),
		graph.T(s, graph.Modified, graph.DateTime(m.ModifiedAt)),
	}
}

// metadataPattern matches the shared attributes of a resource, binding them to variables named prefix+field.
func metadataPattern(s graph.Term, prefix string) []graph.Triple {
	return []graph.Triple{
		graph.T(s, graph.Format, v(prefix+"format")),
		graph.T(s, graph.FileSize, v(prefix+"size")),
		graph.T(s, graph.FileExtension, v(prefix+"extension")),
		graph.T(s, graph.Created, v(prefix+"created")),
		graph.T(s, graph.Modified, v(prefix+"modified")),
	}
}

func metadataVars(prefix string) []string {
	return []string{prefix + "format", prefix + "size", prefix + "extension", prefix + "created", prefix + "modified"}
}

func uploadPattern(s graph.Term, id graph.Term) []graph.Triple {
	return append([]graph.Triple{
		graph.T(s, graph.Type, graph.FileDataObject),
		graph.T(s, graph.UUID, id),
		graph.T(s, graph.FileName, v("name")),
	}, metadataPattern(s, "")...)
}

func filePattern(s, upload graph.Term, id graph.Term) []graph.Triple {
	return append([]graph.Triple{
		graph.T(s, graph.Type, graph.FileDataObject),
		graph.T(s, graph.DataSource, upload),
		graph.T(s, graph.UUID, id),
		graph.T(s, graph.FileName, v("fileName")),
	}, metadataPattern(s, "file_")...)
}

func (d *dbImpl) SaveUpload(ctx context.Context, upload domain.Upload) error {
	r, f := upload.Resource, upload.File
	u := graph.IRI(r.URI)
	s := graph.IRI(f.URI)

	triples := []graph.Triple{
		graph.T(u, graph.Type, graph.FileDataObject),
		graph.T(u, graph.FileName, graph.String(r.Name)),
		graph.T(u, graph.UUID, graph.String(r.ID)),
	}
	triples = append(triples, metadataTriples(u, r.FileMetadata)...)
	triples = append(triples,
		graph.T(s, graph.Type, graph.FileDataObject),
		graph.T(s, graph.DataSource, u),
		graph.T(s, graph.FileName, graph.String(f.StoredName)),
		graph.T(s, graph.UUID, graph.String(f.ID)),
	)
	triples = append(triples, metadataTriples(s, f.FileMetadata)...)

	return d.HandleError(d.catalog.Update(ctx, graph.NewUpdate(d.graph).Insert(triples...)))
}

func (d *dbImpl) GetUploadResource(ctx context.Context, id string) (r domain.UploadResource, err error) {
	bindings, err := d.catalog.Query(ctx, &graph.Select{
		Graph: d.graph,
		Vars:  append([]string{"uri", "name"}, metadataVars("")...),
		Where: uploadPattern(v("uri"), graph.String(id)),
		Limit: 2,
	})
	if err != nil {
		err = d.HandleError(err)
		return
	}
	b, err := single(bindings, id)
	if err != nil {
		return
	}

	r = domain.UploadResource{
		ID:   id,
		URI:  b["uri"].Value,
		Name: b["name"].Value,
	}
	r.FileMetadata, err = decodeMetadata(b, "")
	return
}

func (d *dbImpl) GetUpload(ctx context.Context, id string) (upload domain.Upload, err error) {
	where := uploadPattern(v("uri"), graph.String(id))
	where = append(where, filePattern(v("file"), v("uri"), v("fileId"))...)

	vars := append([]string{"uri", "name", "file", "fileId", "fileName"}, metadataVars("")...)
	vars = append(vars, metadataVars("file_")...)

	bindings, err := d.catalog.Query(ctx, &graph.Select{
		Graph: d.graph,
		Vars:  vars,
		Where: where,
		Limit: 2,
	})
	if err != nil {
		err = d.HandleError(err)
		return
	}
	b, err := single(bindings, id)
	if err != nil {
		return
	}

	upload.Resource = domain.UploadResource{
		ID:   id,
		URI:  b["uri"].Value,
		Name: b["name"].Value,
	}
	if upload.Resource.FileMetadata, err = decodeMetadata(b, ""); err != nil {
		return
	}
	upload.File = domain.FileResource{
		ID:         b["fileId"].Value,
		URI:        b["file"].Value,
		StoredName: b["fileName"].Value,
	}
	upload.File.FileMetadata, err = decodeMetadata(b, "file_")
	return
}

func (d *dbImpl) GetFile(ctx context.Context, id string) (f domain.FileResource, err error) {
	bindings, err := d.catalog.Query(ctx, &graph.Select{
		Graph: d.graph,
		Vars:  append([]string{"file", "fileName"}, metadataVars("file_")...),
		Where: filePattern(v("file"), v("upload"), graph.String(id)),
		Limit: 2,
	})
	if err != nil {
		err = d.HandleError(err)
		return
	}
	b, err := single(bindings, id)
	if err != nil {
		return
	}

	f = domain.FileResource{
		ID:         id,
		URI:        b["file"].Value,
		StoredName: b["fileName"].Value,
	}
	f.FileMetadata, err = decodeMetadata(b, "file_")
	return
}

func (d *dbImpl) DeleteUpload(ctx context.Context, upload domain.Upload) error {
	u := graph.IRI(upload.Resource.URI)
	s := graph.IRI(upload.File.URI)

	update := graph.NewUpdate(d.graph).
		DeleteWhere(uploadPattern(u, v("id"))...).
		DeleteWhere(filePattern(s, u, v("fileId"))...)

	return d.HandleError(d.catalog.Update(ctx, update))
}

func (d *dbImpl) FileNameExists(ctx context.Context, storedName string) (bool, error) {
	bindings, err := d.catalog.Query(ctx, &graph.Select{
		Graph: d.graph,
		Vars:  []string{"file"},
		Where: []graph.Triple{
			graph.T(v("file"), graph.FileName, graph.String(storedName)),
			graph.T(v("file"), graph.DataSource, v("upload")),
		},
		Limit: 1,
	})
	if err != nil {
		return false, d.HandleError(err)
	}
	return len(bindings) > 0, nil
}

func single(bindings []graph.Binding, id string) (graph.Binding, error) {
	switch len(bindings) {
	case 0:
		return nil, db.ErrNotFound
	case 1:
		return bindings[0], nil
	default:
		log.Error().Str("id", id).Int("matches", len(bindings)).Msg("identifier matches more than one record")
		return nil, fmt.Errorf("%w: %d records for id %s", db.ErrInconsistent, len(bindings), id)
	}
}

func decodeMetadata(b graph.Binding, prefix string) (m domain.FileMetadata, err error) {
	m.Format = b[prefix+"format"].Value
	m.Extension = b[prefix+"extension"].Value
	if m.SizeBytes, err = b[prefix+"size"].Int(); err != nil {
		return m, decodeError(prefix+"size", err)
	}
	if m.CreatedAt, err = b[prefix+"created"].Time(); err != nil {
		return m, decodeError(prefix+"created", err)
	}
	if m.ModifiedAt, err = b[prefix+"modified"].Time(); err != nil {
		return m, decodeError(prefix+"modified", err)
	}
	return m, nil
}

func decodeError(field string, err error) error {
	log.Error().Err(err).Str("field", field).Msg("failed to decode stored value")
	return fmt.Errorf("%w: field %s: %w", db.ErrInternal, field, err)
}
