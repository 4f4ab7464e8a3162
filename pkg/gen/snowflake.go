package gen

import (
	"sporcu-lisans-takip/pkg/config"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

var Module = fx.Module("gen",
	fx.Provide(NewSnowflakeNode),
)

// NewSnowflakeNode builds the shared id generator. The node id must be unique
// per running instance when more than one issues licenses concurrently.
func NewSnowflakeNode(cfg *config.Config) (*snowflake.Node, error) {
	nodeID := cfg.Snowflake.NodeID
	if nodeID == 0 {
		nodeID = 1
	}
	return snowflake.NewNode(nodeID)
}
