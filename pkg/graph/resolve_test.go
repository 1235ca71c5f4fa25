package graph

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/actionindex"
)

func TestScanCalls_OneShotForm(t *testing.T) {
	script := `var ip = System.getModule("com.acme.net").allocateIp(network);
System.getModule("com.acme.net").releaseIp(old);`

	assert.Equal(t, []string{"com.acme.net/allocateIp", "com.acme.net/releaseIp"}, ScanCalls(script))
}

func TestScanCalls_BindForm(t *testing.T) {
	script := `var net = System.getModule("com.acme.net");
var ip = net.allocateIp(network);
net.releaseIp(old);`

	assert.Equal(t, []string{"com.acme.net/allocateIp", "com.acme.net/releaseIp"}, ScanCalls(script))
}

func TestScanCalls_DuplicatesCollapse(t *testing.T) {
	script := `System.getModule("com.acme.net").allocateIp(a);
System.getModule("com.acme.net").allocateIp(b);`

	assert.Equal(t, []string{"com.acme.net/allocateIp"}, ScanCalls(script))
}

func TestScanCalls_NoCalls(t *testing.T) {
	assert.Empty(t, ScanCalls(`var x = 1;`))
}

func TestResolveActions(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "com.acme.net.allocateIp.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<dunes-script-module name="allocateIp" result-type="string">
  <script encoded="false"><![CDATA[return 1;]]></script>
</dunes-script-module>`), 0o644))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	idx := actionindex.Build(logger, root, []string{path})
	require.Equal(t, 1, idx.Len())

	withScript := item("a", "")
	withScript.Script = `var ip = System.getModule("com.acme.net").allocateIp(x);
System.getModule("com.acme.dns").register(ip);`

	g := Parse(docOf(withScript))

	resolutions := g.ResolveActions(idx)
	res := resolutions["a"]
	require.NotNil(t, res)

	// Hits carry the full definition; misses are names only.
	require.Len(t, res.Resolved, 1)
	assert.Equal(t, "com.acme.net/allocateIp", res.Resolved[0].FQName)
	assert.NotEmpty(t, res.Resolved[0].Script)
	assert.Equal(t, []string{"com.acme.dns/register"}, res.Unresolved)
}

func TestResolveActions_NilIndex(t *testing.T) {
	withScript := item("a", "")
	withScript.Script = `System.getModule("com.acme.net").allocateIp(x);`

	g := Parse(docOf(withScript))

	resolutions := g.ResolveActions(nil)
	require.NotNil(t, resolutions["a"])
	assert.Empty(t, resolutions["a"].Resolved)
	assert.Equal(t, []string{"com.acme.net/allocateIp"}, resolutions["a"].Unresolved)
}
