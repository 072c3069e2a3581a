package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

func TestParseXftDPI(t *testing.T) {
	tests := []struct {
		name      string
		resources string
		want      int
		wantOK    bool
	}{
		{"unset", "Xcursor.size:\t24\n", 0, false},
		{"integer", "Xcursor.size:\t24\nXft.dpi:\t144\n", 144, true},
		{"fractional", "Xft.dpi: 96.5", 96, true},
		{"garbage", "Xft.dpi: big", 0, false},
		{"zero", "Xft.dpi: 0", 0, false},
		{"prefix only", "Xft.dpiX: 120", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseXftDPI(tt.resources)
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("ParseXftDPI() = %d, %v; want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestStrutsShrinkMonitor(t *testing.T) {
	mon := Monitor{X: 0, Y: 0, Width: 1920, Height: 1080}
	var acc dockStruts

	// 40px bottom panel spanning the whole screen.
	updateStrutsForMonitor(&mon, 1920, 1080, &ewmh.WmStrutPartial{
		Bottom:     40,
		BottomEndX: 1919,
	}, &acc)

	if !shrinkByStruts(&mon, acc) {
		t.Fatal("expected struts to apply")
	}
	if mon.Y != 0 || mon.Height != 1040 || mon.Width != 1920 {
		t.Fatalf("monitor = %+v, want 1920x1040 at 0,0", mon)
	}
}

func TestStrutsOnOtherMonitorAreIgnored(t *testing.T) {
	// Right-hand monitor; the panel only covers the left one.
	mon := Monitor{X: 1920, Y: 0, Width: 1920, Height: 1080}
	var acc dockStruts
	updateStrutsForMonitor(&mon, 3840, 1080, &ewmh.WmStrutPartial{
		Top:     30,
		TopEndX: 1919,
	}, &acc)

	if shrinkByStruts(&mon, acc) {
		t.Fatalf("unexpected struts %+v", acc)
	}
}

func TestClipToWorkArea(t *testing.T) {
	mon := Monitor{X: 0, Y: 0, Width: 1920, Height: 1080}

	got := clipToWorkArea(mon, 0, 32, 1920, 1048)
	if got.Y != 32 || got.Height != 1048 {
		t.Fatalf("clip = %+v", got)
	}

	missed := clipToWorkArea(mon, 5000, 0, 100, 100)
	if missed != mon {
		t.Fatalf("disjoint work area changed monitor: %+v", missed)
	}
}

func TestHasType(t *testing.T) {
	types := []string{"_NET_WM_WINDOW_TYPE_NORMAL", TypeUtility}
	if !HasType(types, TypeToolbar, TypeUtility) {
		t.Fatal("expected utility match")
	}
	if HasType(types, TypeDock) {
		t.Fatal("unexpected dock match")
	}
	if HasType(nil, TypeDock) {
		t.Fatal("nil types should not match")
	}
}

func TestPropertyMissing(t *testing.T) {
	tests := []struct {
		name  string
		reply *xproto.GetPropertyReply
		want  bool
	}{
		{"nil reply", nil, true},
		{"absent", &xproto.GetPropertyReply{Format: 0}, true},
		{"empty atom list", &xproto.GetPropertyReply{Format: 32, Type: xproto.AtomAtom}, false},
		{"atoms", &xproto.GetPropertyReply{Format: 32, Type: xproto.AtomAtom, ValueLen: 1, Value: []byte{1, 0, 0, 0}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := propertyMissing(tt.reply); got != tt.want {
				t.Fatalf("propertyMissing() = %v, want %v", got, tt.want)
			}
		})
	}
}
