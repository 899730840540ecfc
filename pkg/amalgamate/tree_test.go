package amalgamate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTree(t *testing.T) {
	tree := &Node{
		Path: "HippoMocks/hippomocks.h",
		Children: []*Node{
			{Target: "detail/exceptions.h", Kind: NodeExpanded, Children: []*Node{
				{Target: "detail/base.h", Kind: NodeExpanded},
				{Target: "config.h", Kind: NodeUnresolved},
			}},
			{Target: "detail/oldtuple.h", Kind: NodeExcluded},
			{Target: "detail/exceptions.h", Kind: NodeSkipped},
		},
	}

	want := "HippoMocks/hippomocks.h\n" +
		"├── detail/exceptions.h\n" +
		"│   ├── detail/base.h\n" +
		"│   └── config.h (unresolved)\n" +
		"├── detail/oldtuple.h (excluded)\n" +
		"└── detail/exceptions.h (already included)\n"
	assert.Equal(t, want, RenderTree(tree))
}

func TestRenderTree_Nil(t *testing.T) {
	assert.Empty(t, RenderTree(nil))
}
