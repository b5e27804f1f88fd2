package led

const devPortPath = "/dev/port"

// levelOn selects the high half of a GPIO mask; the low half turns the LED off.
const levelOn uint32 = 0xFFFF0000

type portAddr struct {
	port int64
	mask uint32
}

// ALIX 2/3 front panel LEDs and mode switch.
var (
	alixOutputs = map[string]portAddr{
		"led1": {port: 0x6100, mask: 0x00400040},
		"led2": {port: 0x6180, mask: 0x02000200},
		"led3": {port: 0x6180, mask: 0x08000800},
	}
	alixSwitch = portAddr{port: 0x61B0, mask: 0x0100}
)
