package manifest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/learningequality/bundlescan/internal/domain"
	"github.com/learningequality/bundlescan/internal/domain/mocks"
)

func staticDiscoverer(output string) domain.Discoverer {
	return domain.DiscovererFunc(func(ctx context.Context, dir string) ([]byte, error) {
		return []byte(output), nil
	})
}

func TestReader_TwoValidRecords(t *testing.T) {
	output := `{"name":"kolibri.plugins.learn","entry_file":"a.js","stats_file":"a.json","module_path":"kolibri/plugins/learn"}
{"name":"kolibri.plugins.coach","entry_file":"b.js","stats_file":"b.json","module_path":"kolibri/plugins/coach"}
`
	reader := NewReader(staticDiscoverer(output), nil)

	bundles, externals, err := reader.Read(context.Background(), "/srv/plugins/learn", testRoot)

	require.NoError(t, err)
	assert.Len(t, bundles, 2)
	assert.Empty(t, externals)
	assert.Equal(t, "kolibri.plugins.learn", bundles[0].Name)
	assert.Equal(t, "kolibri.plugins.coach", bundles[1].Name)
}

func TestReader_IncompleteRecordSkipped(t *testing.T) {
	output := `{"name":"kolibri.plugins.learn","entry_file":"a.js","stats_file":"a.json","module_path":"kolibri/plugins/learn"}
{"name":"kolibri.plugins.broken","entry_file":"b.js"}`
	reader := NewReader(staticDiscoverer(output), nil)

	bundles, _, err := reader.Read(context.Background(), "/srv/plugins", testRoot)

	require.NoError(t, err)
	assert.Len(t, bundles, 1)
	assert.Equal(t, "kolibri.plugins.learn", bundles[0].Name)
}

func TestReader_NoValidRecords(t *testing.T) {
	output := `{"name":"one"}
{"entry_file":"two.js"}`
	reader := NewReader(staticDiscoverer(output), nil)

	bundles, externals, err := reader.Read(context.Background(), "/srv/plugins", testRoot)

	require.NoError(t, err)
	assert.Empty(t, bundles)
	assert.Empty(t, externals)
}

func TestReader_EmptyOutput(t *testing.T) {
	reader := NewReader(staticDiscoverer(""), nil)

	bundles, externals, err := reader.Read(context.Background(), "/srv/plugins", testRoot)

	require.NoError(t, err)
	assert.Empty(t, bundles)
	assert.Empty(t, externals)
}

func TestReader_BlankLinesIgnored(t *testing.T) {
	output := "\n\n" + `{"name":"kolibri.plugins.learn","entry_file":"a.js","stats_file":"a.json","module_path":"kolibri/plugins/learn"}` + "\n\n"
	reader := NewReader(staticDiscoverer(output), nil)

	bundles, _, err := reader.Read(context.Background(), "/srv/plugins", testRoot)

	require.NoError(t, err)
	assert.Len(t, bundles, 1)
}

func TestReader_ExternalsDistinctNames(t *testing.T) {
	output := `{"name":"vue","entry_file":"a.js","stats_file":"a.json","module_path":"kolibri/core","external":true}
{"name":"vuex","entry_file":"b.js","stats_file":"b.json","module_path":"kolibri/core","external":true}`
	reader := NewReader(staticDiscoverer(output), nil)

	_, externals, err := reader.Read(context.Background(), "/srv/plugins", testRoot)

	require.NoError(t, err)
	assert.Len(t, externals, 2)
	assert.Contains(t, externals, "vue")
	assert.Contains(t, externals, "vuex")
}

func TestReader_DuplicateExternalLastWins(t *testing.T) {
	output := `{"name":"vue","entry_file":"first.js","stats_file":"a.json","module_path":"kolibri/core","external":true}
{"name":"vue","entry_file":"second.js","stats_file":"b.json","module_path":"kolibri/core","external":true}`
	reader := NewReader(staticDiscoverer(output), nil)

	bundles, externals, err := reader.Read(context.Background(), "/srv/plugins", testRoot)

	require.NoError(t, err)
	assert.Len(t, bundles, 2)
	require.Len(t, externals, 1)
	assert.Contains(t, externals["vue"].Entry, "second.js")
}

func TestReader_MalformedLineIsFatal(t *testing.T) {
	output := `{"name":"kolibri.plugins.learn","entry_file":"a.js","stats_file":"a.json","module_path":"kolibri/plugins/learn"}
not json at all`
	reader := NewReader(staticDiscoverer(output), nil)

	bundles, externals, err := reader.Read(context.Background(), "/srv/plugins", testRoot)

	assert.ErrorIs(t, err, domain.ErrInvalidRecord)
	assert.Contains(t, err.Error(), "line 2")
	assert.Nil(t, bundles)
	assert.Nil(t, externals)
}

func TestReader_DiscovererErrorPropagated(t *testing.T) {
	ctrl := gomock.NewController(t)
	discoverer := mocks.NewMockDiscoverer(ctrl)

	discErr := domain.NewDiscoveryError("/srv/plugins/learn", "boom", errors.New("exit status 1"))
	discoverer.EXPECT().
		Discover(gomock.Any(), "/srv/plugins/learn").
		Return(nil, discErr)

	reader := NewReader(discoverer, nil)

	_, _, err := reader.Read(context.Background(), "/srv/plugins/learn", testRoot)

	var de *domain.DiscoveryError
	assert.ErrorAs(t, err, &de)
}
