package collection

import (
	"fmt"
	"strconv"

	"github.com/kailas-cloud/piecedex/internal/db"
	"github.com/kailas-cloud/piecedex/internal/domain/search/filter"
	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
)

// textAnalyzer drops english stopwords from piece text.
const textAnalyzer = "standard_with_stop"

// IndexName returns the engine index of a collection.
func IndexName(prefix string, collectionID int64) string {
	return fmt.Sprintf("%spieces-%d", prefix, collectionID)
}

// buildIndex returns the text piece mapping for a collection index.
func buildIndex(name string) (*db.IndexDefinition, error) {
	return db.NewIndex(name).
		Analyzer(textAnalyzer, "standard", "_english_").
		SortableNumeric(string(filter.FieldPieceID)).
		Flattened(string(filter.FieldMetaData)).
		Bool(string(filter.FieldIndexed)).
		TextWithKeyword(string(filter.FieldDocumentName), "").
		Numeric(string(filter.FieldSize)).
		Tag(string(filter.FieldType)).
		Numeric(string(filter.FieldPage)).
		TextWithKeyword(string(filter.FieldText), textAnalyzer).
		Date(string(filter.FieldCreatedAt)).
		Build()
}

// toBulkDoc converts a piece into an engine document. The indexed flag is
// written as true: the entry exists only once the piece is indexed.
func toBulkDoc(tp domtp.TextPiece) db.BulkOp {
	var meta any
	if md := tp.MetaData(); len(md) > 0 {
		meta = map[string]any(md)
	}
	return db.BulkOp{
		Action: db.BulkIndex,
		ID:     strconv.FormatInt(tp.ID(), 10),
		Doc: map[string]any{
			string(filter.FieldPieceID):      tp.ID(),
			string(filter.FieldMetaData):     meta,
			string(filter.FieldIndexed):      true,
			string(filter.FieldDocumentName): tp.DocumentName(),
			string(filter.FieldSize):         tp.Size(),
			string(filter.FieldType):         string(tp.Type()),
			string(filter.FieldPage):         tp.Page(),
			string(filter.FieldText):         tp.Text(),
			string(filter.FieldCreatedAt):    tp.CreatedAt(),
		},
	}
}
