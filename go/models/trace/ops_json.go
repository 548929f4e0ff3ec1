package trace

import (
	"fmt"
	"strconv"
)

func bprintf(f string, args ...interface{}) []byte {
	return []byte(fmt.Sprintf(f, args...))
}

func (o *OpNop) MarshalJSON() ([]byte, error) {
	return bprintf(`{"op":%d}`, OP_NOP), nil
}

func (o *OpStep) MarshalJSON() ([]byte, error) {
	return bprintf(`{"op":%d,"pc":%d,"ins":%s}`, OP_STEP, o.PC, strconv.Quote(o.Text)), nil
}

func (o *OpReg) MarshalJSON() ([]byte, error) {
	return bprintf(`{"op":%d,"num":%d,"val":%d}`, OP_REG, o.Num, o.Val), nil
}

func (o *OpLoad) MarshalJSON() ([]byte, error) {
	return bprintf(`{"op":%d,"addr":%d,"val":%d}`, OP_LOAD, o.Addr, o.Val), nil
}

func (o *OpStore) MarshalJSON() ([]byte, error) {
	return bprintf(`{"op":%d,"addr":%d,"val":%d}`, OP_STORE, o.Addr, o.Val), nil
}

func (o *OpCache) MarshalJSON() ([]byte, error) {
	return bprintf(`{"op":%d,"event":%d,"addr":%d,"slot":%d}`, OP_CACHE, o.Event, o.Addr, o.Slot), nil
}

func (o *OpExit) MarshalJSON() ([]byte, error) {
	return bprintf(`{"op":%d,"reason":%d,"steps":%d}`, OP_EXIT, o.Reason, o.Steps), nil
}
