package simulate

import (
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
)

// Annotation locates an AMR gene on a contig.
type Annotation struct {
	Contig string
	ARO    string
	Start  int // 0-based.
	End    int // exclusive.
	Strand seq.Strand
}

// ReadAnnotations reads the AMR annotations of GFF files. The ARO
// is the second attribute value up to the first comma, and the
// contig is the sequence name up to its last '_', which drops the
// ORF number appended by the annotator.
func ReadAnnotations(fileNames []string) ([]Annotation, error) {
	var annotations []Annotation
	for _, fileName := range fileNames {
		a, err := readGff(fileName)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, a...)
	}
	return annotations, nil
}

func readGff(fileName string) ([]Annotation, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var annotations []Annotation
	rd := gff.NewReader(f)
	for {
		feat, err := rd.Read()
		if err != nil {
			if err != io.EOF {
				// Trailing sections of annotator output do not parse
				// as features; keep what was read.
				Log.Warnf("%s: stop reading: %v", fileName, err)
			}
			break
		}
		gf, ok := feat.(*gff.Feature)
		if !ok || len(gf.FeatAttributes) < 2 {
			continue
		}
		aro := attributeValue(gf.FeatAttributes[1])
		if i := strings.IndexByte(aro, ','); i >= 0 {
			aro = aro[:i]
		}
		annotations = append(annotations, Annotation{
			Contig: trimORF(gf.SeqName),
			ARO:    aro,
			Start:  gf.FeatStart,
			End:    gf.FeatEnd,
			Strand: gf.FeatStrand,
		})
	}
	return annotations, nil
}

// attributeValue handles both GFF2 "tag value" and GFF3 "tag=value"
// attributes.
func attributeValue(a gff.Attribute) string {
	if a.Value == "" {
		if i := strings.IndexByte(a.Tag, '='); i >= 0 {
			return strings.TrimSpace(a.Tag[i+1:])
		}
	}
	return strings.Trim(strings.TrimSpace(a.Value), `"`)
}

func trimORF(name string) string {
	if i := strings.LastIndexByte(name, '_'); i > 0 {
		return name[:i]
	}
	return name
}
