package db

// SchemaSQL contains the database schema initialization SQL.
//
// Rooms are denormalized: each row carries the summary embedding for HNSW
// retrieval plus the full item payload, so a nearest-neighbor hit hydrates a
// complete room without a second query. The embedding dimension matches
// all-minilm:l6-v2.
const SchemaSQL = `
    DEFINE TABLE IF NOT EXISTS room SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS label ON room TYPE string;
    DEFINE FIELD IF NOT EXISTS summary ON room TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS source_uri ON room TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS embedding ON room TYPE array<float>;
    DEFINE FIELD IF NOT EXISTS items ON room TYPE array<object> FLEXIBLE;
    REMOVE FIELD IF EXISTS items.* ON room;
    DEFINE FIELD items.* ON room TYPE object FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS searchable ON room TYPE string DEFAULT "";
    DEFINE FIELD IF NOT EXISTS created ON room TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated ON room TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS room_label ON room FIELDS label;
    DEFINE INDEX IF NOT EXISTS room_embedding ON room FIELDS embedding HNSW DIMENSION 384 DIST COSINE TYPE F32;
    DEFINE ANALYZER IF NOT EXISTS room_analyzer TOKENIZERS class FILTERS lowercase, ascii, snowball(english);
    DEFINE INDEX IF NOT EXISTS room_searchable_ft ON room FIELDS searchable FULLTEXT ANALYZER room_analyzer BM25;
`
