package table

import "encoding/binary"

// Row is a fixed-width record: one uint64 per table column, grounded
// on original_source/table.h's TableRow (table_row_get_property /
// table_row_set_property operate on a fixed-width property array).
type Row []uint64

func encodeRow(row Row) []byte {
	buf := make([]byte, len(row)*8)
	for i, v := range row {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}
	return buf
}

func decodeRow(buf []byte) Row {
	row := make(Row, len(buf)/8)
	for i := range row {
		row[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
	return row
}
