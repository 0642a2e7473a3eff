// Package domain contains the core business entities for the document
// question-answering pipeline: documents, chunks, retrieval results and
// generated answers. It has no dependencies on adapters or infrastructure.
package domain
