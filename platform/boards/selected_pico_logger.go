//go:build board_pico_logger

package boards

const selectedName = "pico_logger"
