package modhook

// AddItemToPlayer adds count copies of item to the player's inventory. It
// reports false when the player cannot be resolved, item is nil or count
// is zero.
func AddItemToPlayer(res *Resolver, item BoundObject, count uint32) bool {
	if res == nil || isNil(item) || count == 0 {
		return false
	}
	player, ok := res.Player()
	if !ok {
		return false
	}
	player.AddObjectToContainer(item, count)
	res.logger.Info("Added item to player inventory", "item", item.Name(), "count", count)
	return true
}
