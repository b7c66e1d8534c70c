package sqldb

import (
	"time"

	"gorm.io/datatypes"
)

// DocumentRow is the documents table.
type DocumentRow struct {
	ID         int64          `gorm:"column:document_id;primaryKey;autoIncrement"`
	Name       string         `gorm:"column:name;type:varchar(1024);not null;uniqueIndex"`
	Author     string         `gorm:"column:author;type:varchar(1024);not null;default:''"`
	TextPieces []TextPieceRow `gorm:"foreignKey:DocumentName;references:Name;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName sets the table name.
func (DocumentRow) TableName() string { return "documents" }

// TextPieceRow is the text_pieces table.
type TextPieceRow struct {
	ID           int64             `gorm:"column:piece_id;primaryKey;autoIncrement"`
	MetaData     datatypes.JSONMap `gorm:"column:meta_data"`
	Indexed      bool              `gorm:"column:indexed;not null;default:false"`
	DocumentName string            `gorm:"column:document_name;type:varchar(1024);not null;index"`
	Size         int               `gorm:"column:size;not null;index"`
	Type         string            `gorm:"column:type;type:varchar(16);not null"`
	Page         int               `gorm:"column:page;not null;check:positive_page,page > 0"`
	Text         string            `gorm:"column:text;type:text;not null"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName sets the table name.
func (TextPieceRow) TableName() string { return "text_pieces" }
