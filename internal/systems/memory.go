package systems

import "nuggets-server/internal/domain"

// MergeMemory вливает свежую маску видимости в память игрока.
//
// Сначала все запомненное золото и буквы сбрасываются в рельеф клетки
// (пол или проход), затем каждая видимая клетка перезаписывает память.
// Память, маска и рельеф - независимые буферы одного размера.
func MergeMemory(memory, visible, terrain []byte) {
	for i, c := range memory {
		if domain.IsCollectible(c) || c == domain.TileSelf {
			memory[i] = terrain[i]
		}
	}
	for i, c := range visible {
		if c != domain.TileSolid {
			memory[i] = c
		}
	}
}
