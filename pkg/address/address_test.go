package address_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostpath/hostpath/pkg/address"
	"github.com/hostpath/hostpath/pkg/host"
)

func TestSplit(t *testing.T) {
	me := host.DefaultUser()

	cases := []struct {
		in   string
		host host.Host
		bare string
	}{
		{in: "/foo/bar", host: host.Local{}, bare: "/foo/bar"},
		{in: "foo/bar", host: host.Local{}, bare: "foo/bar"},
		{in: "~/foo/bar", host: host.Local{}, bare: "~/foo/bar"},
		{in: "~me/foo/bar", host: host.Local{}, bare: "~me/foo/bar"},
		{in: "/x@foo/bar", host: host.Local{}, bare: "/x@foo/bar"},
		{in: "/fo:o/bar", host: host.Local{}, bare: "/fo:o/bar"},
		{in: "abc:def", host: host.Local{}, bare: "abc:def"},
		{in: "there:/foo", host: host.Remote{Hostname: "there", User: me, Port: 22}, bare: "/foo"},
		{in: "me@there:/fo:o/bar", host: host.Remote{Hostname: "there", User: "me", Port: 22}, bare: "/fo:o/bar"},
		{in: "me@there:60:~", host: host.Remote{Hostname: "there", User: "me", Port: 60}, bare: "~"},
		{in: "there:/60:x", host: host.Remote{Hostname: "there", User: me, Port: 22}, bare: "/60:x"},
		{in: "name@a:~name/.config", host: host.Remote{Hostname: "a", User: "name", Port: 22}, bare: "~name/.config"},
		{in: "1:2:/3", host: host.Remote{Hostname: "1", User: me, Port: 2}, bare: "/3"},
	}

	for _, tt := range cases {
		t.Run(tt.in, func(t *testing.T) {
			h, bare, err := address.Split(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.host, h)
			require.Equal(t, tt.bare, bare)
		})
	}
}

func TestSplitColonAfterAnchorIsLocal(t *testing.T) {
	// the colon comes after the first "/", so it is a path byte
	h, bare, err := address.Split("/etc/we:ird")
	require.NoError(t, err)
	require.Equal(t, host.Local{}, h)
	require.Equal(t, "/etc/we:ird", bare)
}

func TestSplitMalformedDescriptor(t *testing.T) {
	_, _, err := address.Split("a@b@c:/foo")
	require.Error(t, err)

	_, _, err = address.Split("a:b:c:/foo")
	require.Error(t, err)

	_, _, err = address.Split("host:bad:/foo")
	require.Error(t, err)
}
