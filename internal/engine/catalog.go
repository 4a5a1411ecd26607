package engine

import (
	"strings"

	"github.com/tinyrel/tinyrel/internal/sqlparser"
	"github.com/tinyrel/tinyrel/internal/storage"
)

// Column is one schema column: declared type, nullability, and its
// primary/foreign key role. Foreign points at the referenced primary-key
// column when the column belongs to a foreign key.
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
	Primary  bool
	Foreign  *ForeignRef
}

// ForeignRef names the table and column a foreign-key column references.
type ForeignRef struct {
	Table  string
	Column string
}

// Table is a loaded table: schema plus all records, each record an
// ordered value slice parallel to Columns.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]Value
}

func (t *Table) colIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Catalog owns the persisted table schemas. Every operation goes through
// the document store: load the whole document, work on it, store it back.
type Catalog struct {
	store storage.Store
}

// NewCatalog creates a catalog over the given document store.
func NewCatalog(store storage.Store) *Catalog {
	return &Catalog{store: store}
}

// TableNames lists the names of all stored tables.
func (c *Catalog) TableNames() ([]string, error) {
	return c.store.Keys()
}

// Exists reports whether a table of that name is stored.
func (c *Catalog) Exists(name string) (bool, error) {
	names, err := c.store.Keys()
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// Load reads and decodes the whole table document for name.
func (c *Catalog) Load(name string) (*Table, error) {
	raw, err := c.store.Get(name)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, errKind(ErrNoSuchTable)
		}
		return nil, err
	}
	doc, err := storage.DecodeTable(raw)
	if err != nil {
		return nil, err
	}
	return tableFromDoc(name, doc)
}

// Save encodes and stores the whole table document.
func (c *Catalog) Save(t *Table) error {
	raw, err := storage.EncodeTable(docFromTable(t))
	if err != nil {
		return err
	}
	return c.store.Put(t.Name, raw)
}

// Create validates a CREATE TABLE statement against the invariants of the
// schema model and, on success, persists the new empty table. Validation
// runs column definitions first, then the primary-key clause, then each
// foreign-key clause independently and fully before the next; any failure
// leaves the store untouched. It returns the created table's name.
func (c *Catalog) Create(stmt *sqlparser.CreateTable) (string, error) {
	name := strings.ToLower(stmt.Name)

	existing, err := c.TableNames()
	if err != nil {
		return "", err
	}
	for _, n := range existing {
		if n == name {
			return "", errKind(ErrTableExistence)
		}
	}

	t := &Table{Name: name}
	colIdx := map[string]int{}
	for _, elem := range stmt.Elems {
		def := elem.Column
		if def == nil {
			continue
		}
		colName := strings.ToLower(def.Name)
		if _, dup := colIdx[colName]; dup {
			return "", errKind(ErrDuplicateColumnDef)
		}
		colType := typeFromSpec(def.Type)
		if colType.Kind == KindChar && colType.Len < 1 {
			return "", errKind(ErrCharLength)
		}
		colIdx[colName] = len(t.Columns)
		t.Columns = append(t.Columns, Column{
			Name:     colName,
			Type:     colType,
			Nullable: !def.NotNull,
		})
	}

	if err := c.applyPrimaryKey(stmt, t, colIdx); err != nil {
		return "", err
	}
	for _, elem := range stmt.Elems {
		if elem.Foreign == nil {
			continue
		}
		if err := c.applyForeignKey(elem.Foreign, t, colIdx, existing); err != nil {
			return "", err
		}
	}

	if err := c.Save(t); err != nil {
		return "", err
	}
	return name, nil
}

func (c *Catalog) applyPrimaryKey(stmt *sqlparser.CreateTable, t *Table, colIdx map[string]int) error {
	var defs []*sqlparser.PrimaryKeyDef
	for _, elem := range stmt.Elems {
		if elem.Primary != nil {
			defs = append(defs, elem.Primary)
		}
	}
	if len(defs) == 0 {
		return nil
	}
	if len(defs) > 1 {
		return errKind(ErrDuplicatePrimaryKeyDef)
	}

	cols := lowerAll(defs[0].Columns)
	for _, col := range cols {
		if _, ok := colIdx[col]; !ok {
			return errNamed(ErrNonExistingColumnDef, col)
		}
	}
	if hasDuplicate(cols) {
		return errKind(ErrEtc)
	}
	// Primary-key columns are implicitly non-nullable.
	for _, col := range cols {
		i := colIdx[col]
		t.Columns[i].Nullable = false
		t.Columns[i].Primary = true
	}
	return nil
}

func (c *Catalog) applyForeignKey(def *sqlparser.ForeignKeyDef, t *Table, colIdx map[string]int, existing []string) error {
	cols := lowerAll(def.Columns)
	refTable := strings.ToLower(def.RefTable)
	refCols := lowerAll(def.RefColumns)

	for _, col := range cols {
		if _, ok := colIdx[col]; !ok {
			return errNamed(ErrNonExistingColumnDef, col)
		}
	}
	// The table being created is not in the store yet, so self-references
	// fail here as well.
	found := false
	for _, n := range existing {
		if n == refTable {
			found = true
			break
		}
	}
	if !found {
		return errKind(ErrReferenceTableExistence)
	}

	referred, err := c.Load(refTable)
	if err != nil {
		return err
	}
	remainingPK := map[string]bool{}
	for _, rc := range referred.Columns {
		if rc.Primary {
			remainingPK[rc.Name] = true
		}
	}
	for _, rc := range refCols {
		if referred.colIndex(rc) < 0 {
			return errKind(ErrReferenceColumnExistence)
		}
	}
	if hasDuplicate(cols) || hasDuplicate(refCols) {
		return errKind(ErrEtc)
	}
	if len(cols) != len(refCols) {
		return errKind(ErrEtc)
	}

	for i, col := range cols {
		refCol := refCols[i]
		if !remainingPK[refCol] {
			return errKind(ErrReferenceNonPrimaryKey)
		}
		local := &t.Columns[colIdx[col]]
		referredCol := referred.Columns[referred.colIndex(refCol)]
		// Declared types must match exactly, char lengths included.
		if local.Type != referredCol.Type {
			return errKind(ErrReferenceType)
		}
		if local.Foreign != nil {
			return errKind(ErrEtc)
		}
		local.Foreign = &ForeignRef{Table: refTable, Column: refCol}
		delete(remainingPK, refCol)
	}
	// The clause must cover the referenced table's full primary key.
	if len(remainingPK) > 0 {
		return errKind(ErrReferenceNonPrimaryKey)
	}
	return nil
}

// Drop removes a table, refusing while any other table's foreign key
// still references it.
func (c *Catalog) Drop(name string) error {
	names, err := c.TableNames()
	if err != nil {
		return err
	}
	found := false
	for _, n := range names {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		return errKind(ErrNoSuchTable)
	}
	for _, other := range names {
		if other == name {
			continue
		}
		t, err := c.Load(other)
		if err != nil {
			return err
		}
		for _, col := range t.Columns {
			if col.Foreign != nil && col.Foreign.Table == name {
				return errNamed(ErrDropReferencedTable, name)
			}
		}
	}
	return c.store.Delete(name)
}

// Describe loads the schema of name for tabular rendering.
func (c *Catalog) Describe(name string) (*Table, error) {
	ok, err := c.Exists(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errKind(ErrNoSuchTable)
	}
	return c.Load(name)
}

// ------------------------------ conversions ------------------------------

func typeFromSpec(spec sqlparser.TypeSpec) ColumnType {
	switch {
	case spec.Int:
		return ColumnType{Kind: KindInt}
	case spec.Date:
		return ColumnType{Kind: KindDate}
	default:
		n := 0
		if spec.CharLen != nil {
			n = *spec.CharLen
		}
		return ColumnType{Kind: KindChar, Len: n}
	}
}

func docFromTable(t *Table) *storage.TableDoc {
	doc := &storage.TableDoc{
		Columns: make([]storage.ColumnDoc, len(t.Columns)),
		Records: make([]map[string]any, len(t.Rows)),
	}
	for i, col := range t.Columns {
		cd := storage.ColumnDoc{
			Name:    col.Name,
			Type:    col.Type.String(),
			Null:    col.Nullable,
			Primary: col.Primary,
		}
		if col.Foreign != nil {
			cd.Foreign = &storage.ForeignDoc{
				TableName:  col.Foreign.Table,
				ColumnName: col.Foreign.Column,
			}
		}
		doc.Columns[i] = cd
	}
	for i, row := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for j, col := range t.Columns {
			rec[col.Name] = SerializeValue(row[j])
		}
		doc.Records[i] = rec
	}
	return doc
}

func tableFromDoc(name string, doc *storage.TableDoc) (*Table, error) {
	t := &Table{Name: name, Columns: make([]Column, len(doc.Columns))}
	for i, cd := range doc.Columns {
		colType, ok := ParseColumnType(cd.Type)
		if !ok {
			return nil, errKind(ErrEtc)
		}
		col := Column{
			Name:     cd.Name,
			Type:     colType,
			Nullable: cd.Null,
			Primary:  cd.Primary,
		}
		if cd.Foreign != nil {
			col.Foreign = &ForeignRef{Table: cd.Foreign.TableName, Column: cd.Foreign.ColumnName}
		}
		t.Columns[i] = col
	}
	t.Rows = make([][]Value, len(doc.Records))
	for i, rec := range doc.Records {
		row := make([]Value, len(t.Columns))
		for j, col := range t.Columns {
			v, ok := DeserializeValue(rec[col.Name], col.Type)
			if !ok {
				return nil, errKind(ErrEtc)
			}
			row[j] = v
		}
		t.Rows[i] = row
	}
	return t, nil
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func hasDuplicate(names []string) bool {
	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			return true
		}
		seen[n] = true
	}
	return false
}
