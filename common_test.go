package dsi_test

import (
	"encoding/json"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/dsi-platform/dsi/internal/registry"
	"github.com/dsi-platform/dsi/testmocks"
)

func registryRecord(stacks string, versions ...string) registry.Record {
	record := registry.Record{Latest: registry.Latest{RawStacks: json.RawMessage(stacks)}}
	for _, v := range versions {
		record.Versions = append(record.Versions, registry.Version{Version: v})
	}
	return record
}

func expectBuildpack(t *testing.T, mockRegistry *testmocks.MockBuildpackRegistry, id, stacks string, versions ...string) *gomock.Call {
	t.Helper()
	return mockRegistry.EXPECT().
		FetchInfo(gomock.Any(), id).
		Return(registryRecord(stacks, versions...), nil)
}
