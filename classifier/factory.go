package classifier

import (
	"fmt"

	"github.com/viant/sqlite-kdtree/index"
	"github.com/viant/sqlite-kdtree/index/bruteforce"
	"github.com/viant/sqlite-kdtree/index/kd"
)

// NewIndex returns an empty index of the given kind. An empty kind selects
// the k-d tree.
func NewIndex(kind string, compress bool) (index.Index, error) {
	switch kind {
	case index.KindKD, "":
		return kd.New(kd.WithCompression(compress)), nil
	case index.KindBrute:
		return &bruteforce.Index{}, nil
	default:
		return nil, fmt.Errorf("classifier: unknown index kind %q", kind)
	}
}
