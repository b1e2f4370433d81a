package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping builds the index mapping for paper documents.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	paperMapping := bleve.NewDocumentMapping()

	// Exact-match fields use the keyword analyzer so they are not tokenized.
	idField := bleve.NewTextFieldMapping()
	idField.Analyzer = keyword.Name
	idField.Store = true
	paperMapping.AddFieldMappingsAt("id", idField)

	sourceField := bleve.NewTextFieldMapping()
	sourceField.Analyzer = keyword.Name
	sourceField.Store = true
	paperMapping.AddFieldMappingsAt("source", sourceField)

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = en.AnalyzerName
	titleField.Store = true
	titleField.IncludeTermVectors = true
	paperMapping.AddFieldMappingsAt("title", titleField)

	authorsField := bleve.NewTextFieldMapping()
	authorsField.Analyzer = en.AnalyzerName
	authorsField.Store = true
	authorsField.IncludeTermVectors = true
	paperMapping.AddFieldMappingsAt("authors", authorsField)

	yearField := bleve.NewNumericFieldMapping()
	yearField.Store = true
	paperMapping.AddFieldMappingsAt("year", yearField)

	indexMapping.DefaultMapping = paperMapping

	return indexMapping
}
