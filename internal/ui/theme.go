package ui

import "image/color"

type Theme struct {
	Canvas        color.RGBA
	Grid          color.RGBA
	Card          color.RGBA
	CardBorder    color.RGBA
	CardSelected  color.RGBA
	CardShadow    color.RGBA
	Text          color.RGBA
	MutedText     color.RGBA
	Handle        color.RGBA
	HandleBorder  color.RGBA
	Scrollbar     color.RGBA
	ScrollThumb   color.RGBA
	Panel         color.RGBA
	PanelBorder   color.RGBA
	MiniCard      color.RGBA
	MiniView      color.RGBA
	Accent        color.RGBA
	MenuBg        color.RGBA
	MenuHover     color.RGBA
	EditorBg      color.RGBA
	ToastBg       color.RGBA
	ToastText     color.RGBA
	MiniMapMargin int
	PanelPadDp    int
}

func DefaultTheme() Theme {
	return Theme{
		Canvas:        color.RGBA{0xF0, 0xF0, 0xF0, 0xFF},
		Grid:          color.RGBA{0xE0, 0xE0, 0xE0, 0xFF},
		Card:          color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		CardBorder:    color.RGBA{0x3B, 0x82, 0xF6, 0xFF},
		CardSelected:  color.RGBA{0x25, 0x63, 0xEB, 0xFF},
		CardShadow:    color.RGBA{0xC9, 0xCC, 0xD1, 0xFF},
		Text:          color.RGBA{0x1F, 0x29, 0x37, 0xFF},
		MutedText:     color.RGBA{0x6B, 0x72, 0x80, 0xFF},
		Handle:        color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		HandleBorder:  color.RGBA{0x25, 0x63, 0xEB, 0xFF},
		Scrollbar:     color.RGBA{0xE5, 0xE7, 0xEB, 0xFF},
		ScrollThumb:   color.RGBA{0x9C, 0xA3, 0xAF, 0xFF},
		Panel:         color.RGBA{0xFF, 0xFF, 0xFF, 0xF2},
		PanelBorder:   color.RGBA{0xD1, 0xD5, 0xDB, 0xFF},
		MiniCard:      color.RGBA{0x93, 0xC5, 0xFD, 0xFF},
		MiniView:      color.RGBA{0x25, 0x63, 0xEB, 0xFF},
		Accent:        color.RGBA{0x25, 0x63, 0xEB, 0xFF},
		MenuBg:        color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		MenuHover:     color.RGBA{0xEF, 0xF6, 0xFF, 0xFF},
		EditorBg:      color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		ToastBg:       color.RGBA{0x11, 0x18, 0x27, 0xE6},
		ToastText:     color.RGBA{0xF9, 0xFA, 0xFB, 0xFF},
		MiniMapMargin: 16,
		PanelPadDp:    10,
	}
}
