package graph

const (
	RDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NFO     = "http://www.semanticdesktop.org/ontologies/2007/03/22/nfo#"
	NIE     = "http://www.semanticdesktop.org/ontologies/2007/01/19/nie#"
	DC      = "http://purl.org/dc/terms/"
	DBPEDIA = "http://dbpedia.org/ontology/"
	MU      = "http://mu.semte.ch/vocabularies/core/"
)

var (
	Type           = IRI(RDF + "type")
	FileDataObject = IRI(NFO + "FileDataObject")
	FileName       = IRI(NFO + "fileName")
	FileSize       = IRI(NFO + "fileSize")
	DataSource     = IRI(NIE + "dataSource")
	Format         = IRI(DC + "format")
	Created        = IRI(DC + "created")
	Modified       = IRI(DC + "modified")
	FileExtension  = IRI(DBPEDIA + "fileExtension")
	UUID           = IRI(MU + "uuid")
)
