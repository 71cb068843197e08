package sqlite

// Schema DDL. Column names are part of the on-disk layout shared with
// existing databases and must not change.
const (
	createProdutos = `CREATE TABLE IF NOT EXISTS produtos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    nome TEXT NOT NULL,
    quantidade TEXT NOT NULL
);`

	idxProdutosNome = `CREATE INDEX IF NOT EXISTS idx_produtos_nome ON produtos(nome);`
)

// schemaDDL lists all statements run on attach, tables before indexes.
var schemaDDL = []string{
	createProdutos,
	idxProdutosNome,
}
