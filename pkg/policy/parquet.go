package policy

import (
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/pkg/errors"

	"github.com/Zarux/tdtictactoe/pkg/td"
)

// StateRow is one value table entry, with the cells spelled out so the
// export can be queried without decoding keys.
type StateRow struct {
	State string  `parquet:"state"`
	Value float64 `parquet:"value"`
	Cells []int32 `parquet:"cells"`
	Own   int32   `parquet:"own"`
	Opp   int32   `parquet:"opp"`
}

func Rows(table *td.ValueTable) ([]StateRow, error) {
	rows := make([]StateRow, 0, table.Len())
	for _, key := range table.Keys() {
		b, err := td.Decode(key)
		if err != nil {
			return nil, err
		}

		row := StateRow{
			State: string(key),
			Value: table.Value(key),
			Cells: make([]int32, len(b)),
		}
		for i, p := range b {
			row.Cells[i] = int32(p)
			switch {
			case p > 0:
				row.Own++
			case p < 0:
				row.Opp++
			}
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func ExportParquet(outPath string, table *td.ValueTable) error {
	rows, err := Rows(table)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.Wrap(err, "create output dir")
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "td_value_table_v1"),
	); err != nil {
		return errors.Wrap(err, "write parquet")
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return errors.Wrap(err, "rename parquet")
	}

	return nil
}

func ReadParquet(path string) ([]StateRow, error) {
	rows, err := parquet.ReadFile[StateRow](path)
	if err != nil {
		return nil, errors.Wrap(err, "read parquet")
	}

	return rows, nil
}
