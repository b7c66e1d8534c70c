// Package piecedex embeds the piecedex document store and full-text search
// collections in a Go program, without the HTTP server.
//
// Documents and their text pieces live in a relational store (PostgreSQL or
// SQLite). Each document has one search collection in Elasticsearch or Redis,
// rebuilt from the store on Reindex.
//
//	client, _ := piecedex.New(ctx,
//	    piecedex.WithSQLite("file:pieces.db"),
//	    piecedex.WithElasticsearch("http://localhost:9200"),
//	    piecedex.WithAutoMigrate(),
//	)
//	defer client.Close()
//
//	doc, _ := client.Documents().Create(ctx, "doc.pdf", "A")
//	_, _ = client.TextPieces().Create(ctx, piecedex.NewTextPiece{
//	    DocumentName: "doc.pdf", Type: piecedex.TypeTitle, Page: 1, Text: "hello world",
//	})
//	_, _ = client.Collection(doc.ID).Reindex(ctx)
//	page, _ := client.Collection(doc.ID).Search(ctx, piecedex.SearchRequest{
//	    Filters: []piecedex.Filter{piecedex.Match("text", "hello")},
//	})
package piecedex
