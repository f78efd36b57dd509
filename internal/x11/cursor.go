package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xcursor"
)

// blankCursor lazily builds an invisible cursor from a 1x1 empty bitmap.
func (c *Connection) blankCursor() (xproto.Cursor, error) {
	if c.blank != 0 {
		return c.blank, nil
	}
	conn := c.XUtil.Conn()

	pix, err := xproto.NewPixmapId(conn)
	if err != nil {
		return 0, err
	}
	if err := xproto.CreatePixmapChecked(conn, 1, pix, xproto.Drawable(c.Root), 1, 1).Check(); err != nil {
		return 0, fmt.Errorf("failed to create cursor pixmap: %w", err)
	}
	defer xproto.FreePixmap(conn, pix)

	cur, err := xproto.NewCursorId(conn)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateCursorChecked(conn, cur, pix, pix, 0, 0, 0, 0, 0, 0, 0, 0).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create blank cursor: %w", err)
	}
	c.blank = cur
	return cur, nil
}

// SetCursorVisible shows the default arrow or hides the pointer while it
// is over id.
func (c *Connection) SetCursorVisible(id xproto.Window, visible bool) error {
	var (
		cur xproto.Cursor
		err error
	)
	if visible {
		cur, err = xcursor.CreateCursor(c.XUtil, xcursor.LeftPtr)
	} else {
		cur, err = c.blankCursor()
	}
	if err != nil {
		return err
	}
	xproto.ChangeWindowAttributes(c.XUtil.Conn(), id, xproto.CwCursor, []uint32{uint32(cur)})
	if visible {
		xproto.FreeCursor(c.XUtil.Conn(), cur)
	}
	return nil
}
