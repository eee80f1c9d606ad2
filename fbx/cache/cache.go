package cache

// Cache maps exported object names to their exporter state.
type Cache struct {
	d map[string]interface{}
}

func (c *Cache) Add(name string, d interface{}) {
	c.d[name] = d
}

func (c *Cache) Get(name string) interface{} {
	if d, e := c.d[name]; e {
		return d
	} else {
		return nil
	}
}

func (c *Cache) GetOr(name string, create func() interface{}) interface{} {
	if d := c.Get(name); d != nil {
		return d
	}
	d := create()
	c.Add(name, d)
	return d
}

func NewCache() *Cache {
	return &Cache{d: make(map[string]interface{})}
}
