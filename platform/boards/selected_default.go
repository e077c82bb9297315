//go:build !board_pico_logger && !board_pico_bench

package boards

const selectedName = "default"
