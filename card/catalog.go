// Package card loads the CARD reference data used by the encoders:
// the ARO to AMR gene family mapping from aro_index.tsv and the
// maximum bitscore tables used for normalization.
package card

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mingzhi/amrtime"
)

// Log is the package logger.
var Log logrus.FieldLogger = logrus.StandardLogger()

// Column names of aro_index.tsv.
const (
	AROColumn    = "ARO Accession"
	FamilyColumn = "AMR Gene Family"
)

// Catalog maps AROs to gene families and holds the maximum
// bitscores per family and per ARO.
type Catalog struct {
	aroFamily map[string]string
	families  map[string]bool

	maxFamily map[string]float64
	maxARO    map[string]float64
}

var _ amrtime.Catalog = (*Catalog)(nil)

// New returns a catalog over an ARO to family mapping.
func New(aroFamily map[string]string) *Catalog {
	c := &Catalog{
		aroFamily: make(map[string]string, len(aroFamily)),
		families:  make(map[string]bool),
		maxFamily: make(map[string]float64),
		maxARO:    make(map[string]float64),
	}
	for aro, fam := range aroFamily {
		c.aroFamily[aro] = fam
		c.families[fam] = true
	}
	return c
}

// LoadIndex reads a CARD aro_index.tsv file.
func LoadIndex(fileName string) (*Catalog, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadIndex(f, fileName)
}

// ReadIndex reads a tab separated table with a header line holding
// the AROColumn and FamilyColumn columns. An ARO listed with two
// different families keeps the first one.
func ReadIndex(r io.Reader, name string) (*Catalog, error) {
	csvRd := csv.NewReader(r)
	csvRd.Comma = '\t'
	csvRd.FieldsPerRecord = -1
	csvRd.LazyQuotes = true

	header, err := csvRd.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &amrtime.ParseError{Path: name, Line: 1, Reason: "empty index"}
		}
		return nil, &amrtime.ParseError{Path: name, Line: 1, Reason: err.Error()}
	}
	aroCol, famCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case AROColumn:
			aroCol = i
		case FamilyColumn:
			famCol = i
		}
	}
	if aroCol < 0 || famCol < 0 {
		return nil, &amrtime.ParseError{Path: name, Line: 1, Reason: fmt.Sprintf("header lacks %q or %q", AROColumn, FamilyColumn)}
	}

	m := make(map[string]string)
	line := 1
	for {
		fields, err := csvRd.Read()
		line++
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, &amrtime.ParseError{Path: name, Line: line, Reason: err.Error()}
		}
		if len(fields) <= aroCol || len(fields) <= famCol {
			return nil, &amrtime.ParseError{Path: name, Line: line, Reason: "short row"}
		}
		aro := strings.TrimSpace(fields[aroCol])
		fam := strings.TrimSpace(fields[famCol])
		if aro == "" || fam == "" {
			return nil, &amrtime.ParseError{Path: name, Line: line, Reason: "empty ARO or family"}
		}
		if prev, found := m[aro]; found {
			if prev != fam {
				Log.Warnf("%s:%d: %s listed in %q and %q, keeping %q", name, line, aro, prev, fam, prev)
			}
			continue
		}
		m[aro] = fam
	}

	c := New(m)
	Log.WithFields(logrus.Fields{
		"aros":     len(c.aroFamily),
		"families": len(c.families),
	}).Debugf("loaded %s", name)
	return c, nil
}

func (c *Catalog) AROs() []string { return sortedKeys(c.aroFamily) }

func (c *Catalog) Families() []string {
	fams := make([]string, 0, len(c.families))
	for f := range c.families {
		fams = append(fams, f)
	}
	sort.Strings(fams)
	return fams
}

func (c *Catalog) Family(aro string) (string, bool) {
	f, found := c.aroFamily[aro]
	return f, found
}

func (c *Catalog) MaxFamilyBitscore(family string) (float64, bool) {
	v, found := c.maxFamily[family]
	return v, found
}

func (c *Catalog) MaxAROBitscore(aro string) (float64, bool) {
	v, found := c.maxARO[aro]
	return v, found
}

// SetMaxAROBitscore records the maximum bitscore of an ARO and
// raises the maximum of its family if needed.
func (c *Catalog) SetMaxAROBitscore(aro string, v float64) error {
	fam, found := c.aroFamily[aro]
	if !found {
		return &amrtime.MissingDataError{Kind: "aro", Key: aro}
	}
	c.maxARO[aro] = v
	if cur, found := c.maxFamily[fam]; !found || v > cur {
		c.maxFamily[fam] = v
	}
	return nil
}

// Max bitscore table kinds.
const (
	KindFamily = "family"
	KindARO    = "aro"
)

// WriteMaxBitscores writes the maximum bitscore tables as
// "kind\tname\tbitscore" lines, families first.
func (c *Catalog) WriteMaxBitscores(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, f := range sortedKeys(c.maxFamily) {
		fmt.Fprintf(bw, "%s\t%s\t%s\n", KindFamily, f, strconv.FormatFloat(c.maxFamily[f], 'g', -1, 64))
	}
	for _, a := range sortedKeys(c.maxARO) {
		fmt.Fprintf(bw, "%s\t%s\t%s\n", KindARO, a, strconv.FormatFloat(c.maxARO[a], 'g', -1, 64))
	}
	return bw.Flush()
}

// LoadMaxBitscores reads a table written by WriteMaxBitscores.
func (c *Catalog) LoadMaxBitscores(fileName string) error {
	f, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer f.Close()

	return c.ReadMaxBitscores(f, fileName)
}

func (c *Catalog) ReadMaxBitscores(r io.Reader, name string) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != 3 {
			return &amrtime.ParseError{Path: name, Line: line, Reason: "want kind, name and bitscore"}
		}
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return &amrtime.ParseError{Path: name, Line: line, Reason: err.Error()}
		}
		switch fields[0] {
		case KindFamily:
			if !c.families[fields[1]] {
				return &amrtime.MissingDataError{Kind: "family", Key: fields[1]}
			}
			c.maxFamily[fields[1]] = v
		case KindARO:
			if _, found := c.aroFamily[fields[1]]; !found {
				return &amrtime.MissingDataError{Kind: "aro", Key: fields[1]}
			}
			c.maxARO[fields[1]] = v
		default:
			return &amrtime.ParseError{Path: name, Line: line, Reason: fmt.Sprintf("unknown kind %q", fields[0])}
		}
	}
	return sc.Err()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
