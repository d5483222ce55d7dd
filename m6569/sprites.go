package m6569

import "math/bits"

// runSpritePipeline advances each of the 8 sprites' DMA/expansion state by
// one cycle. Sprite DMA starts for each enabled sprite whose Y coordinate
// matches the current raster line (Y expansion is not modelled); at cycle 0
// of that line and of each following line it fetches the sprite's pointer
// and its 3 data bytes in one step, until all 63 bytes have been read. This
// follows the real chip's MC/MC_BASE bookkeeping without reproducing its
// per-cycle bus-steal schedule.
func (c *Chip) runSpritePipeline() {
	if c.hCount != 0 {
		return
	}

	for i := range c.sprites {
		s := &c.sprites[i]
		enabled := c.reg.spriteEnable&(1<<uint(i)) != 0
		yMatch := c.reg.spriteY[i] == uint8(c.vCount&0xff)

		if enabled && yMatch && !s.dma {
			s.dma = true
			s.mc = s.mcBase
		}

		if s.dma {
			base := c.reg.videoMatrixBase() + 0x3f8 + uint16(i)
			s.pointer = c.mem.VICRead(base)
			dataBase := uint16(s.pointer) * 64
			s.data = uint32(c.mem.VICRead(dataBase+uint16(s.mc)))<<16 |
				uint32(c.mem.VICRead(dataBase+uint16(s.mc)+1))<<8 |
				uint32(c.mem.VICRead(dataBase+uint16(s.mc)+2))

			s.mc += 3
			s.mcBase = s.mc

			if s.mc >= 63 {
				s.dma = false
				s.mc = 0
				s.mcBase = 0
			}
		}
	}
}

// SpriteCollision reports whether sprites a and b currently overlap on the
// raster, as latched into the sprite-sprite collision register.
func (c *Chip) SpriteCollision(a, b int) bool {
	return c.reg.spriteSpriteCollision&(1<<uint(a)) != 0 &&
		c.reg.spriteSpriteCollision&(1<<uint(b)) != 0
}

// spriteXOrigin is the raster dot the leftmost display column (col==0, as
// seen by runScheduledAccess and the Pixel callback) starts at, matching the
// real chip's display-window left edge in 40-column mode.
const spriteXOrigin = 24

// spriteColumnByte reports whether sprite i covers display column col this
// line and, if so, the 8 sprite-data bits active there. This is a
// column (8-pixel-cell) granularity approximation of the real chip's
// per-dot 24/48-bit shift register, matching the granularity the Pixel
// callback itself already works at.
func (c *Chip) spriteColumnByte(i, col int) (uint8, bool) {
	s := &c.sprites[i]
	if s.data == 0 {
		return 0, false
	}

	x := int(c.reg.spriteX[i])
	if c.reg.spriteXMSB&(1<<uint(i)) != 0 {
		x += 256
	}

	leftCol := (x - spriteXOrigin) / 8
	span := 3
	if c.reg.spriteXExpand&(1<<uint(i)) != 0 {
		span = 6
	}
	if col < leftCol || col >= leftCol+span {
		return 0, false
	}

	offset := col - leftCol
	byteIdx := offset
	if span == 6 {
		byteIdx = offset / 2
	}

	b := uint8(s.data >> uint(16-byteIdx*8))
	return b, b != 0
}

// spriteMulticolorColor resolves one 2-bit multicolor sprite pixel pair to
// the colour it selects; ok is false for the transparent (00) pair.
func (c *Chip) spriteMulticolorColor(i int, pair uint8) (uint8, bool) {
	switch pair {
	case 0:
		return 0, false
	case 1:
		return c.reg.spriteMulticolor0, true
	case 2:
		return c.reg.spriteColor[i], true
	default:
		return c.reg.spriteMulticolor1, true
	}
}

// compositeSprites overlays the sprite unit's output onto the already
// resolved graphics/border colour for one display column, setting the
// sprite-sprite and sprite-background collision latches exactly as the real
// colour multiplexer does: any two sprites with non-transparent pixels in
// the same column collide, and any sprite over a foreground graphics pixel
// collides with the background regardless of which, if either, is finally
// drawn.
func (c *Chip) compositeSprites(col int, bgColor uint8, bgForeground bool) uint8 {
	var hitMask uint8
	winner := -1
	var winnerColor uint8

	for i := 7; i >= 0; i-- {
		if c.reg.spriteEnable&(1<<uint(i)) == 0 {
			continue
		}

		raw, hit := c.spriteColumnByte(i, col)
		if !hit {
			continue
		}

		var color uint8
		var opaque bool
		if c.reg.spriteMulticolor&(1<<uint(i)) != 0 {
			color, opaque = c.spriteMulticolorColor(i, raw>>6)
		} else {
			color, opaque = c.reg.spriteColor[i], true
		}
		if !opaque {
			continue
		}

		hitMask |= 1 << uint(i)
		if bgForeground {
			c.reg.spriteDataCollision |= 1 << uint(i)
		}

		winner = i
		winnerColor = color
	}

	if bits.OnesCount8(hitMask) > 1 {
		c.reg.spriteSpriteCollision |= hitMask
	}

	if winner < 0 {
		return bgColor
	}
	if c.reg.spriteDataPriority&(1<<uint(winner)) != 0 && bgForeground {
		return bgColor
	}
	return winnerColor
}
