package x11

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"
)

// XftDPI returns the Xft.dpi resource published on the root window's
// RESOURCE_MANAGER property. It returns false when the resource is unset.
func (c *Connection) XftDPI() (int, bool, error) {
	resources, err := xprop.PropValStr(xprop.GetProperty(c.XUtil, c.Root, "RESOURCE_MANAGER"))
	if err != nil {
		return 0, false, fmt.Errorf("failed to read RESOURCE_MANAGER: %w", err)
	}
	dpi, ok := ParseXftDPI(resources)
	return dpi, ok, nil
}

// ParseXftDPI extracts Xft.dpi from an X resource database string.
// Fractional values are truncated.
func ParseXftDPI(resources string) (int, bool) {
	for _, line := range strings.Split(resources, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(key) != "Xft.dpi" {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || f <= 0 {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

// CompositingActive reports whether a compositing manager owns the
// _NET_WM_CM_Sn selection for the default screen.
func (c *Connection) CompositingActive() (bool, error) {
	name := fmt.Sprintf("_NET_WM_CM_S%d", c.XUtil.Conn().DefaultScreen)
	atom, err := xprop.Atm(c.XUtil, name)
	if err != nil {
		return false, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	reply, err := xproto.GetSelectionOwner(c.XUtil.Conn(), atom).Reply()
	if err != nil {
		return false, fmt.Errorf("failed to get %s owner: %w", name, err)
	}
	return reply.Owner != xproto.WindowNone, nil
}
